package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned by services when the user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when a create/update would duplicate an email.
var ErrEmailTaken = errors.New("email already registered")

// ErrBadPassword is returned when old-password verification fails.
var ErrBadPassword = errors.New("incorrect password")

// Repository port (interface untuk persistence).
// Get and GetByEmail return (nil, nil) when no user matches.
type Repository interface {
	GetAll(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id UserID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id UserID, passwordHash string) error
	Delete(ctx context.Context, id UserID) error
}
