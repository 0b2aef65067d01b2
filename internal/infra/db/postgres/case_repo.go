package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domain "github.com/guardtree/guardtree-api/internal/domain/cases"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) GetAll(ctx context.Context) ([]*domain.Case, error) {
	const q = `
SELECT id, name, birthdate, gender, case_description, types, created_at, updated_at
FROM cases
ORDER BY id ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns (nil, nil) when the case does not exist.
func (r *CaseRepository) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	const q = `
SELECT id, name, birthdate, gender, case_description, types, created_at, updated_at
FROM cases
WHERE id=$1 LIMIT 1;
`
	c, err := scanCase(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	const q = `
INSERT INTO cases (name, birthdate, gender, case_description, types, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;
`
	return r.db.QueryRowContext(ctx, q,
		c.Name, c.Birthdate, c.Gender, c.Description, typesOrEmpty(c.Types), c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	const q = `
UPDATE cases
SET name=$2, birthdate=$3, gender=$4, case_description=$5, types=$6, updated_at=$7
WHERE id=$1;
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Birthdate, c.Gender, c.Description, typesOrEmpty(c.Types), c.UpdatedAt,
	)
	return err
}

func (r *CaseRepository) Delete(ctx context.Context, id domain.CaseID) error {
	const q = `DELETE FROM cases WHERE id=$1;`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	var types []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Birthdate, &c.Gender, &c.Description, &types, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(types, &c.Types); err != nil {
		return nil, fmt.Errorf("decode case types for id=%d: %w", c.ID, err)
	}
	return &c, nil
}

// typesOrEmpty keeps the json column valid even for a nil slice.
func typesOrEmpty(types []string) []byte {
	if types == nil {
		types = []string{}
	}
	b, err := json.Marshal(types)
	if err != nil {
		return []byte("[]")
	}
	return b
}
