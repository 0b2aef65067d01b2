package forms

import (
	"context"
	"errors"
)

// ErrNotFound is returned by services when a filled form does not exist.
var ErrNotFound = errors.New("form not found")

// ErrCaseNotFound is returned on create when the referenced case is unknown.
var ErrCaseNotFound = errors.New("case_id not found")

// Repository port (interface untuk persistence).
//
// The Find* lookups return the zero value with a nil error when no row
// matches: absence of a filled form is an expected outcome, not an error.
// When several rows match the (case_id, year, form_type) triple the lowest
// id wins, so "first match" is deterministic across backends.
type Repository interface {
	GetAll(ctx context.Context) ([]*FormContent, error)
	Get(ctx context.Context, id FormID) (*FormContent, error)
	Create(ctx context.Context, f *FormContent) error
	Delete(ctx context.Context, id FormID) error

	// FindContent looks up the full filled form by its key triple.
	FindContent(ctx context.Context, caseID int64, year int, formType FormType) (*FormContent, error)
	// FindID projects only the row identity for the same key triple.
	// Returns 0 when no row matches.
	FindID(ctx context.Context, caseID int64, year int, formType FormType) (FormID, error)
}
