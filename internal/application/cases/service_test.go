package cases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/guardtree/guardtree-api/internal/domain/cases"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeCaseRepo struct {
	cases  map[domain.CaseID]*domain.Case
	nextID domain.CaseID
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[domain.CaseID]*domain.Case), nextID: 1}
}

func (r *fakeCaseRepo) GetAll(ctx context.Context) ([]*domain.Case, error) {
	var out []*domain.Case
	for _, c := range r.cases {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCaseRepo) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	return r.cases[id], nil
}

func (r *fakeCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	c.ID = r.nextID
	r.nextID++
	r.cases[c.ID] = c
	return nil
}

func (r *fakeCaseRepo) Update(ctx context.Context, c *domain.Case) error {
	r.cases[c.ID] = c
	return nil
}

func (r *fakeCaseRepo) Delete(ctx context.Context, id domain.CaseID) error {
	delete(r.cases, id)
	return nil
}

func TestCreateCaseStampsTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &Service{Repo: newFakeCaseRepo(), Clock: fixedClock{t: now}}

	c, err := svc.Create(context.Background(), &domain.Case{Name: "小明", Types: []string{"生活自理"}})
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
}

func TestGetCaseNotFound(t *testing.T) {
	svc := &Service{Repo: newFakeCaseRepo(), Clock: fixedClock{}}

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCasePartial(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	repo := newFakeCaseRepo()
	svc := &Service{Repo: repo, Clock: fixedClock{t: created}}

	c, err := svc.Create(context.Background(), &domain.Case{Name: "小明", Gender: "male"})
	require.NoError(t, err)

	svc.Clock = fixedClock{t: updated}
	name := "小華"
	got, err := svc.Update(context.Background(), c.ID, domain.Update{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "小華", got.Name)
	assert.Equal(t, "male", got.Gender, "unset fields keep current values")
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, updated, got.UpdatedAt)
}

func TestDeleteCaseNotFound(t *testing.T) {
	svc := &Service{Repo: newFakeCaseRepo(), Clock: fixedClock{}}

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
