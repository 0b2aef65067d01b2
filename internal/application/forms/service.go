package forms

import (
	"context"

	"github.com/guardtree/guardtree-api/internal/application"
	caseDomain "github.com/guardtree/guardtree-api/internal/domain/cases"
	domain "github.com/guardtree/guardtree-api/internal/domain/forms"
)

// Service implements use-cases untuk filled assessment forms.
type Service struct {
	Repo  domain.Repository
	Cases caseDomain.Repository
	Clock application.Clock
}

func (s *Service) GetAll(ctx context.Context) ([]*domain.FormContent, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.FormID) (*domain.FormContent, error) {
	f, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// Create stores a filled form after checking the referenced case exists.
func (s *Service) Create(ctx context.Context, f *domain.FormContent) (*domain.FormContent, error) {
	c, err := s.Cases.Get(ctx, caseDomain.CaseID(f.CaseID))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCaseNotFound
	}

	f.CreatedAt = s.Clock.Now()
	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Delete(ctx context.Context, id domain.FormID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
