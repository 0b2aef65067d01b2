package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appusers "github.com/guardtree/guardtree-api/internal/application/users"
	domain "github.com/guardtree/guardtree-api/internal/domain/users"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type singleUserRepo struct {
	user *domain.User
}

func (r *singleUserRepo) GetAll(ctx context.Context) ([]*domain.User, error) { return nil, nil }
func (r *singleUserRepo) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}
func (r *singleUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, nil
}
func (r *singleUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (r *singleUserRepo) Update(ctx context.Context, u *domain.User) error { return nil }
func (r *singleUserRepo) UpdatePassword(ctx context.Context, id domain.UserID, hash string) error {
	return nil
}
func (r *singleUserRepo) Delete(ctx context.Context, id domain.UserID) error { return nil }

func newAuthService(t *testing.T, clock fixedClock) (*Service, *domain.User) {
	t.Helper()
	hash, err := appusers.HashPassword("correct-password")
	require.NoError(t, err)

	u := &domain.User{ID: 7, Email: "teacher@example.com", PasswordHash: hash}
	return &Service{
		Users:    &singleUserRepo{user: u},
		Secret:   []byte("test-secret"),
		TokenTTL: 30 * time.Minute,
		Clock:    clock,
	}, u
}

func TestLoginAndVerify(t *testing.T) {
	svc, u := newAuthService(t, fixedClock{t: time.Now()})

	tok, err := svc.Login(context.Background(), "teacher@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	id, err := svc.Verify(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t, fixedClock{t: time.Now()})

	_, err := svc.Login(context.Background(), "teacher@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t, fixedClock{t: time.Now()})

	_, err := svc.Login(context.Background(), "nobody@example.com", "correct-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyExpiredToken(t *testing.T) {
	// issue a token whose exp is already in the past
	svc, _ := newAuthService(t, fixedClock{t: time.Now().Add(-2 * time.Hour)})

	tok, err := svc.Login(context.Background(), "teacher@example.com", "correct-password")
	require.NoError(t, err)

	_, err = svc.Verify(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	svc, _ := newAuthService(t, fixedClock{t: time.Now()})

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	clock := fixedClock{t: time.Now()}
	svc, _ := newAuthService(t, clock)

	tok, err := svc.Login(context.Background(), "teacher@example.com", "correct-password")
	require.NoError(t, err)

	other := &Service{Secret: []byte("different-secret"), TokenTTL: 30 * time.Minute, Clock: clock}
	_, err = other.Verify(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
