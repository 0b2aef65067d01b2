package cases

import (
	"context"
	"errors"
)

// ErrNotFound is returned by services when the case does not exist.
var ErrNotFound = errors.New("case not found")

// Repository port (interface untuk persistence).
// Get returns (nil, nil) when the case does not exist.
type Repository interface {
	GetAll(ctx context.Context) ([]*Case, error)
	Get(ctx context.Context, id CaseID) (*Case, error)
	Create(ctx context.Context, c *Case) error
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id CaseID) error
}
