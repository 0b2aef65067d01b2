package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/guardtree/guardtree-api/internal/domain/forms"
)

type FormRepository struct {
	db *sql.DB
}

func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) GetAll(ctx context.Context) ([]*domain.FormContent, error) {
	const q = `
SELECT id, case_id, year, form_type, content, created_at
FROM life_support_form_filled
ORDER BY id ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.FormContent
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get returns (nil, nil) when no row matches.
func (r *FormRepository) Get(ctx context.Context, id domain.FormID) (*domain.FormContent, error) {
	const q = `
SELECT id, case_id, year, form_type, content, created_at
FROM life_support_form_filled
WHERE id=? LIMIT 1;
`
	f, err := scanForm(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (r *FormRepository) Create(ctx context.Context, f *domain.FormContent) error {
	const q = `
INSERT INTO life_support_form_filled (case_id, year, form_type, content, created_at)
VALUES (?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q,
		f.CaseID, f.Year, string(f.FormType), jsonOrEmpty(f.Entries), f.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = domain.FormID(id)
	return nil
}

func (r *FormRepository) Delete(ctx context.Context, id domain.FormID) error {
	const q = `DELETE FROM life_support_form_filled WHERE id=?;`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// FindContent looks up the filled form by its key triple.
// Lowest id wins when several rows match, see the Repository port contract.
func (r *FormRepository) FindContent(ctx context.Context, caseID int64, year int, formType domain.FormType) (*domain.FormContent, error) {
	const q = `
SELECT id, case_id, year, form_type, content, created_at
FROM life_support_form_filled
WHERE case_id=? AND year=? AND form_type=?
ORDER BY id ASC LIMIT 1;
`
	f, err := scanForm(r.db.QueryRowContext(ctx, q, caseID, year, string(formType)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

// FindID projects only the row identity for the key triple; 0 = not found.
func (r *FormRepository) FindID(ctx context.Context, caseID int64, year int, formType domain.FormType) (domain.FormID, error) {
	const q = `
SELECT id
FROM life_support_form_filled
WHERE case_id=? AND year=? AND form_type=?
ORDER BY id ASC LIMIT 1;
`
	var id domain.FormID
	err := r.db.QueryRowContext(ctx, q, caseID, year, string(formType)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

func scanForm(row rowScanner) (*domain.FormContent, error) {
	var f domain.FormContent
	var content []byte
	if err := row.Scan(&f.ID, &f.CaseID, &f.Year, &f.FormType, &content, &f.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &f.Entries); err != nil {
		return nil, fmt.Errorf("decode form content for id=%d: %w", f.ID, err)
	}
	return &f, nil
}
