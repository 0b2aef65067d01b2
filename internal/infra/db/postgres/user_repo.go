package postgres

import (
	"context"
	"database/sql"

	domain "github.com/guardtree/guardtree-api/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password, role, is_admin, created_at`

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Get returns (nil, nil) when no user matches.
func (r *UserRepository) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1 LIMIT 1;`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// GetByEmail returns (nil, nil) when no user matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1 LIMIT 1;`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (name, email, password, role, is_admin, created_at)
VALUES ($1,$2,$3,$4,$5,now())
RETURNING id, created_at;
`
	return r.db.QueryRowContext(ctx, q,
		u.Name, u.Email, u.PasswordHash, u.Role, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users SET name=$2, email=$3, role=$4, is_admin=$5 WHERE id=$1;
`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.Role, u.IsAdmin)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	const q = `UPDATE users SET password=$2 WHERE id=$1;`
	_, err := r.db.ExecContext(ctx, q, id, passwordHash)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	const q = `DELETE FROM users WHERE id=$1;`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
