package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/guardtree/guardtree-api/internal/domain/analysis"
	"github.com/guardtree/guardtree-api/internal/domain/forms"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Find returns the cached analysis for (filled_form_id, form_type), or
// (nil, nil) when none exists.
func (r *AnalysisRepository) Find(ctx context.Context, filledFormID forms.FormID, formType forms.FormType) (*domain.Result, error) {
	const q = `
SELECT id, filled_form_id, form_type, summary, suggestions, raw_url, created_at
FROM life_support_form_analysis
WHERE filled_form_id=? AND form_type=?
ORDER BY created_at ASC, id ASC
LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, filledFormID, string(formType))

	var a domain.Result
	var summary, suggestions []byte
	if err := row.Scan(&a.ID, &a.FilledFormID, &a.FormType, &summary, &suggestions, &a.RawURL, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(summary, &a.Summary); err != nil {
		return nil, fmt.Errorf("decode analysis summary for id=%s: %w", a.ID, err)
	}
	if err := json.Unmarshal(suggestions, &a.Suggestions); err != nil {
		return nil, fmt.Errorf("decode analysis suggestions for id=%s: %w", a.ID, err)
	}
	return &a, nil
}

// Save inserts an analysis row. INSERT IGNORE against the unique key on
// (filled_form_id, form_type) keeps a concurrent duplicate from landing.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Result) error {
	const q = `
INSERT IGNORE INTO life_support_form_analysis
  (id, filled_form_id, form_type, summary, suggestions, raw_url, created_at)
VALUES (?,?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), a.FilledFormID, string(a.FormType),
		jsonOrEmpty(a.Summary), jsonOrEmpty(a.Suggestions),
		a.RawURL, a.CreatedAt,
	)
	return err
}
