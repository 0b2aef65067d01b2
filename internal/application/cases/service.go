package cases

import (
	"context"

	"github.com/guardtree/guardtree-api/internal/application"
	domain "github.com/guardtree/guardtree-api/internal/domain/cases"
)

// Service implements use-cases untuk Case records.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

func (s *Service) GetAll(ctx context.Context) ([]*domain.Case, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, c *domain.Case) (*domain.Case, error) {
	now := s.Clock.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id domain.CaseID, upd domain.Update) (*domain.Case, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Birthdate != nil {
		c.Birthdate = *upd.Birthdate
	}
	if upd.Gender != nil {
		c.Gender = *upd.Gender
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Types != nil {
		c.Types = upd.Types
	}
	c.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id domain.CaseID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
