package analysis

import (
	"context"

	"github.com/guardtree/guardtree-api/internal/domain/forms"
)

// Repository port for persisting and querying analyses.
// Find returns (nil, nil) when no cached analysis exists.
type Repository interface {
	Find(ctx context.Context, filledFormID forms.FormID, formType forms.FormType) (*Result, error)
	Save(ctx context.Context, r *Result) error
}

// Archive port for keeping the raw model response around for auditing.
// Implementations return a stable URL for the stored object.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}
