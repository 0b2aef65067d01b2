package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/guardtree/guardtree-api/internal/application/analysis"
	appauth "github.com/guardtree/guardtree-api/internal/application/auth"
	appcases "github.com/guardtree/guardtree-api/internal/application/cases"
	appforms "github.com/guardtree/guardtree-api/internal/application/forms"
	appusers "github.com/guardtree/guardtree-api/internal/application/users"
	domai "github.com/guardtree/guardtree-api/internal/domain/ai"
	domanalysis "github.com/guardtree/guardtree-api/internal/domain/analysis"
	domcases "github.com/guardtree/guardtree-api/internal/domain/cases"
	domforms "github.com/guardtree/guardtree-api/internal/domain/forms"
	domusers "github.com/guardtree/guardtree-api/internal/domain/users"
	"github.com/guardtree/guardtree-api/internal/middleware"
)

type Router struct {
	authSvc     *appauth.Service
	usersSvc    *appusers.Service
	casesSvc    *appcases.Service
	formsSvc    *appforms.Service
	analysisSvc *appanalysis.Service
}

func NewRouter(
	authSvc *appauth.Service,
	usersSvc *appusers.Service,
	casesSvc *appcases.Service,
	formsSvc *appforms.Service,
	analysisSvc *appanalysis.Service,
) http.Handler {
	r := &Router{
		authSvc:     authSvc,
		usersSvc:    usersSvc,
		casesSvc:    casesSvc,
		formsSvc:    formsSvc,
		analysisSvc: analysisSvc,
	}
	mux := chi.NewRouter()

	mux.Post("/auth/login", r.wrap(r.handleLogin))

	mux.Route("/users", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleListUsers))
		rt.Post("/", r.wrap(r.handleCreateUser))
		rt.Get("/{id}", r.wrap(r.handleGetUser))
		rt.Put("/{id}", r.wrap(r.handleUpdateUser))
		rt.Put("/{id}/password", r.wrap(r.handleUpdatePassword))
		rt.Put("/{id}/role", r.wrap(r.handleUpdateRole))
		rt.Delete("/{id}", r.wrap(r.handleDeleteUser))
	})

	mux.Route("/cases", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleListCases))
		rt.Post("/", r.wrap(r.handleCreateCase))
		rt.Get("/{id}", r.wrap(r.handleGetCase))
		rt.Put("/{id}", r.wrap(r.handleUpdateCase))
		rt.Delete("/{id}", r.wrap(r.handleDeleteCase))
	})

	mux.Route("/forms", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleListForms))
		rt.Post("/", r.wrap(r.handleCreateForm))
		rt.Get("/{id}", r.wrap(r.handleGetForm))
		rt.Delete("/{id}", r.wrap(r.handleDeleteForm))
	})

	mux.Route("/llm", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/result", r.wrap(r.handleAnalysisResult))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks validation failures so wrap can map them to 400.
type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error { return &badRequestError{err: err} }

// forbiddenError marks authorization failures so wrap can map them to 403.
type forbiddenError struct{ msg string }

func (e *forbiddenError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows),
				errors.Is(err, domanalysis.ErrFormNotFound),
				errors.Is(err, domanalysis.ErrNotFound),
				errors.Is(err, domusers.ErrNotFound),
				errors.Is(err, domcases.ErrNotFound),
				errors.Is(err, domforms.ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, appauth.ErrInvalidCredentials),
				errors.Is(err, appauth.ErrInvalidToken):
				http.Error(w, err.Error(), http.StatusUnauthorized)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "model quota exceeded", http.StatusTooManyRequests)
			case isMalformedOutput(err):
				middleware.IncrementAnalysesFailed()
				http.Error(w, err.Error(), http.StatusBadGateway)
			case errors.Is(err, domusers.ErrEmailTaken),
				errors.Is(err, domusers.ErrBadPassword),
				errors.Is(err, domforms.ErrCaseNotFound),
				isBadRequest(err):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case isForbidden(err):
				http.Error(w, err.Error(), http.StatusForbidden)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func isMalformedOutput(err error) bool {
	var m *domanalysis.MalformedOutputError
	return errors.As(err, &m)
}

func isBadRequest(err error) bool {
	var b *badRequestError
	return errors.As(err, &b)
}

func isForbidden(err error) bool {
	var f *forbiddenError
	return errors.As(err, &f)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func pathID(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Errorf("invalid id in path"))
	}
	return id, nil
}

// POST /auth/login
// Body: {"email": "...", "password": "..."}
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(fmt.Errorf("email and password are required"))
	}

	tok, err := r.authSvc.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tok)
}

// GET /users
func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) error {
	list, err := r.usersSvc.GetAll(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /users/{id}
func (r *Router) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	u, err := r.usersSvc.Get(req.Context(), domusers.UserID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// POST /users
func (r *Router) handleCreateUser(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return badRequest(err)
	}
	if body.Password == "" {
		return badRequest(fmt.Errorf("password is required"))
	}

	u, err := r.usersSvc.Create(req.Context(), appusers.CreateCommand{
		Name:     middleware.SanitizeString(body.Name),
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
		IsAdmin:  body.IsAdmin,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, u)
}

// PUT /users/{id}
func (r *Router) handleUpdateUser(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.Email != nil {
		if err := middleware.ValidateEmail(*body.Email); err != nil {
			return badRequest(err)
		}
	}

	u, err := r.usersSvc.Update(req.Context(), domusers.UserID(id), domusers.Update{
		Name:  body.Name,
		Email: body.Email,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// PUT /users/{id}/password
// Body: {"old_password": "...", "new_password": "..."}
func (r *Router) handleUpdatePassword(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.NewPassword == "" {
		return badRequest(fmt.Errorf("new_password is required"))
	}

	if err := r.usersSvc.UpdatePassword(req.Context(), domusers.UserID(id), body.OldPassword, body.NewPassword); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// PUT /users/{id}/role — admin only.
func (r *Router) handleUpdateRole(w http.ResponseWriter, req *http.Request) error {
	if err := r.requireAdmin(req); err != nil {
		return err
	}
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body struct {
		Role    string `json:"role"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}

	u, err := r.usersSvc.UpdateRole(req.Context(), domusers.UserID(id), domusers.RoleUpdate{
		Role:    body.Role,
		IsAdmin: body.IsAdmin,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, u)
}

// DELETE /users/{id}
func (r *Router) handleDeleteUser(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := r.usersSvc.Delete(req.Context(), domusers.UserID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// requireAdmin checks that the authenticated caller has the admin flag.
func (r *Router) requireAdmin(req *http.Request) error {
	callerID := middleware.GetUserIDFromContext(req.Context())
	if callerID == 0 {
		return appauth.ErrInvalidToken
	}
	caller, err := r.usersSvc.Get(req.Context(), domusers.UserID(callerID))
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return &forbiddenError{msg: "admin privileges required"}
	}
	return nil
}

// GET /cases
func (r *Router) handleListCases(w http.ResponseWriter, req *http.Request) error {
	list, err := r.casesSvc.GetAll(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /cases/{id}
func (r *Router) handleGetCase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	c, err := r.casesSvc.Get(req.Context(), domcases.CaseID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// POST /cases
func (r *Router) handleCreateCase(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name        string    `json:"name"`
		Birthdate   time.Time `json:"birthdate"`
		Gender      string    `json:"gender"`
		Description string    `json:"caseDescription"`
		Types       []string  `json:"types"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.Name == "" {
		return badRequest(fmt.Errorf("name is required"))
	}

	c, err := r.casesSvc.Create(req.Context(), &domcases.Case{
		Name:        middleware.SanitizeString(body.Name),
		Birthdate:   body.Birthdate,
		Gender:      body.Gender,
		Description: middleware.SanitizeString(body.Description),
		Types:       body.Types,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// PUT /cases/{id}
func (r *Router) handleUpdateCase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body struct {
		Name        *string    `json:"name"`
		Birthdate   *time.Time `json:"birthdate"`
		Gender      *string    `json:"gender"`
		Description *string    `json:"caseDescription"`
		Types       []string   `json:"types"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}

	c, err := r.casesSvc.Update(req.Context(), domcases.CaseID(id), domcases.Update{
		Name:        body.Name,
		Birthdate:   body.Birthdate,
		Gender:      body.Gender,
		Description: body.Description,
		Types:       body.Types,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// DELETE /cases/{id}
func (r *Router) handleDeleteCase(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := r.casesSvc.Delete(req.Context(), domcases.CaseID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /forms
func (r *Router) handleListForms(w http.ResponseWriter, req *http.Request) error {
	list, err := r.formsSvc.GetAll(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /forms/{id}
func (r *Router) handleGetForm(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	f, err := r.formsSvc.Get(req.Context(), domforms.FormID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, f)
}

// POST /forms
// Body: {"case_id": 1, "year": 2024, "form_type": "A", "content": [...]}
func (r *Router) handleCreateForm(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		CaseID   int64           `json:"case_id"`
		Year     int             `json:"year"`
		FormType string          `json:"form_type"`
		Content  []domforms.Entry `json:"content"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := validateFormKey(body.CaseID, body.Year, body.FormType); err != nil {
		return err
	}
	for _, e := range body.Content {
		if e.SupportType != nil && !e.SupportType.Valid() {
			return badRequest(fmt.Errorf("invalid support_type: %d", *e.SupportType))
		}
	}

	f, err := r.formsSvc.Create(req.Context(), &domforms.FormContent{
		CaseID:   body.CaseID,
		Year:     body.Year,
		FormType: domforms.FormType(body.FormType),
		Entries:  body.Content,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, f)
}

// DELETE /forms/{id}
func (r *Router) handleDeleteForm(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := r.formsSvc.Delete(req.Context(), domforms.FormID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /llm/analyze
// Body: {"case_id": 1, "year": 2024, "form_type": "A"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		CaseID   int64  `json:"case_id"`
		Year     int    `json:"year"`
		FormType string `json:"form_type"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := validateFormKey(body.CaseID, body.Year, body.FormType); err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	result, err := r.analysisSvc.AnalyzeCase(req.Context(), body.CaseID, body.Year, domforms.FormType(body.FormType))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

// GET /llm/result?case_id=&year=&form_type=
func (r *Router) handleAnalysisResult(w http.ResponseWriter, req *http.Request) error {
	caseID, _ := strconv.ParseInt(req.URL.Query().Get("case_id"), 10, 64)
	year, _ := strconv.Atoi(req.URL.Query().Get("year"))
	formType := req.URL.Query().Get("form_type")
	if err := validateFormKey(caseID, year, formType); err != nil {
		return err
	}

	result, err := r.analysisSvc.GetAnalysisResult(req.Context(), caseID, year, domforms.FormType(formType))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func validateFormKey(caseID int64, year int, formType string) error {
	if err := middleware.ValidateCaseID(caseID); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateYear(year); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateFormType(formType); err != nil {
		return badRequest(err)
	}
	return nil
}
