package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
)

const modelOutput = `{
  "summary": {"summary":"整體能力穩定","strengths":"s","concerns":"c","priority_item":"p"},
  "suggestions": {"strategy":"策略建議"}
}`

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memFormRepo struct {
	forms map[domforms.FormID]*domforms.FormContent
}

func (r *memFormRepo) GetAll(ctx context.Context) ([]*domforms.FormContent, error) { return nil, nil }
func (r *memFormRepo) Get(ctx context.Context, id domforms.FormID) (*domforms.FormContent, error) {
	return r.forms[id], nil
}
func (r *memFormRepo) Create(ctx context.Context, f *domforms.FormContent) error { return nil }
func (r *memFormRepo) Delete(ctx context.Context, id domforms.FormID) error      { return nil }
func (r *memFormRepo) FindContent(ctx context.Context, caseID int64, year int, ft domforms.FormType) (*domforms.FormContent, error) {
	for _, f := range r.forms {
		if f.CaseID == caseID && f.Year == year && f.FormType == ft {
			return f, nil
		}
	}
	return nil, nil
}
func (r *memFormRepo) FindID(ctx context.Context, caseID int64, year int, ft domforms.FormType) (domforms.FormID, error) {
	f, _ := r.FindContent(ctx, caseID, year, ft)
	if f == nil {
		return 0, nil
	}
	return f.ID, nil
}

type memAnalysisRepo struct {
	results map[domforms.FormID]*domanalysis.Result
}

func (r *memAnalysisRepo) Find(ctx context.Context, id domforms.FormID, ft domforms.FormType) (*domanalysis.Result, error) {
	return r.results[id], nil
}
func (r *memAnalysisRepo) Save(ctx context.Context, res *domanalysis.Result) error {
	if r.results == nil {
		r.results = make(map[domforms.FormID]*domanalysis.Result)
	}
	r.results[res.FilledFormID] = res
	return nil
}

type stubGenerator struct {
	output string
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.output, g.err
}

type emptyUserRepo struct{}

func (emptyUserRepo) GetAll(ctx context.Context) ([]*domusers.User, error) { return nil, nil }
func (emptyUserRepo) Get(ctx context.Context, id domusers.UserID) (*domusers.User, error) {
	return nil, nil
}
func (emptyUserRepo) GetByEmail(ctx context.Context, email string) (*domusers.User, error) {
	return nil, nil
}
func (emptyUserRepo) Create(ctx context.Context, u *domusers.User) error { return nil }
func (emptyUserRepo) Update(ctx context.Context, u *domusers.User) error { return nil }
func (emptyUserRepo) UpdatePassword(ctx context.Context, id domusers.UserID, hash string) error {
	return nil
}
func (emptyUserRepo) Delete(ctx context.Context, id domusers.UserID) error { return nil }

type emptyCaseRepo struct{}

func (emptyCaseRepo) GetAll(ctx context.Context) ([]*domcases.Case, error) { return nil, nil }
func (emptyCaseRepo) Get(ctx context.Context, id domcases.CaseID) (*domcases.Case, error) {
	return nil, nil
}
func (emptyCaseRepo) Create(ctx context.Context, c *domcases.Case) error   { return nil }
func (emptyCaseRepo) Update(ctx context.Context, c *domcases.Case) error   { return nil }
func (emptyCaseRepo) Delete(ctx context.Context, id domcases.CaseID) error { return nil }

func testRouter(gen *stubGenerator) http.Handler {
	clock := fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	formRepo := &memFormRepo{forms: map[domforms.FormID]*domforms.FormContent{
		42: {
			ID:       42,
			CaseID:   7,
			Year:     2024,
			FormType: domforms.FormTypeA,
			Entries:  []domforms.Entry{{Activity: "進食", Item: "使用餐具", CoreArea: "生活自理"}},
		},
	}}

	usersSvc := &appusers.Service{Repo: emptyUserRepo{}}
	casesSvc := &appcases.Service{Repo: emptyCaseRepo{}, Clock: clock}
	formsSvc := &appforms.Service{Repo: formRepo, Cases: emptyCaseRepo{}, Clock: clock}
	analysisSvc := &appanalysis.Service{
		Forms:    formRepo,
		Analyses: &memAnalysisRepo{},
		Model:    gen,
		Prompt:   func(f *domforms.FormContent) string { return "prompt" },
		Clock:    clock,
	}
	authSvc := &appauth.Service{
		Users:    emptyUserRepo{},
		Secret:   []byte("test-secret"),
		TokenTTL: 30 * time.Minute,
		Clock:    clock,
	}
	return NewRouter(authSvc, usersSvc, casesSvc, formsSvc, analysisSvc)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := testRouter(&stubGenerator{output: modelOutput})

	rec := doJSON(t, h, http.MethodPost, "/llm/analyze", `{"case_id":7,"year":2024,"form_type":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "策略建議")
}

func TestAnalyzeEndpointMissingForm(t *testing.T) {
	h := testRouter(&stubGenerator{output: modelOutput})

	rec := doJSON(t, h, http.MethodPost, "/llm/analyze", `{"case_id":99,"year":2024,"form_type":"B"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeEndpointInvalidKey(t *testing.T) {
	h := testRouter(&stubGenerator{output: modelOutput})

	tests := []string{
		`{"case_id":0,"year":2024,"form_type":"A"}`,
		`{"case_id":7,"year":0,"form_type":"A"}`,
		`{"case_id":7,"year":2024,"form_type":"Z"}`,
		`not json`,
	}
	for _, body := range tests {
		rec := doJSON(t, h, http.MethodPost, "/llm/analyze", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestAnalyzeEndpointMalformedModelOutput(t *testing.T) {
	h := testRouter(&stubGenerator{output: "抱歉，我無法產出 JSON"})

	rec := doJSON(t, h, http.MethodPost, "/llm/analyze", `{"case_id":7,"year":2024,"form_type":"A"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAnalyzeEndpointQuotaExceeded(t *testing.T) {
	h := testRouter(&stubGenerator{err: domai.ErrQuotaExceeded})

	rec := doJSON(t, h, http.MethodPost, "/llm/analyze", `{"case_id":7,"year":2024,"form_type":"A"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestResultEndpointNoCachedAnalysis(t *testing.T) {
	h := testRouter(&stubGenerator{output: modelOutput})

	rec := doJSON(t, h, http.MethodGet, "/llm/result?case_id=7&year=2024&form_type=A", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultEndpointAfterAnalyze(t *testing.T) {
	h := testRouter(&stubGenerator{output: modelOutput})

	rec := doJSON(t, h, http.MethodPost, "/llm/analyze", `{"case_id":7,"year":2024,"form_type":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/llm/result?case_id=7&year=2024&form_type=A", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "整體能力穩定")
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := testRouter(&stubGenerator{})

	rec := doJSON(t, h, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCaseEndpointNotFound(t *testing.T) {
	h := testRouter(&stubGenerator{})

	rec := doJSON(t, h, http.MethodGet, "/cases/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormCreateUnknownCase(t *testing.T) {
	h := testRouter(&stubGenerator{})

	rec := doJSON(t, h, http.MethodPost, "/forms", `{"case_id":7,"year":2024,"form_type":"A","content":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
