package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guardtree/guardtree-api/internal/application"
	appusers "github.com/guardtree/guardtree-api/internal/application/users"
	domain "github.com/guardtree/guardtree-api/internal/domain/users"
)

// ErrInvalidCredentials covers unknown email and wrong password alike, so
// the login response never reveals which one failed.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// ErrInvalidToken indicates a token that is missing, expired or unverifiable.
var ErrInvalidToken = errors.New("could not validate credentials")

// Service issues and verifies HS256 access tokens.
type Service struct {
	Users    domain.Repository
	Secret   []byte
	TokenTTL time.Duration
	Clock    application.Clock
}

// Token is the login response payload.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates by email+password and returns a bearer token with
// sub = user id.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !appusers.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.Clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(int64(u.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// VerifyToken adapts Verify for middleware that works with plain int64 ids.
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	id, err := s.Verify(tokenString)
	return int64(id), err
}

// Verify parses a bearer token and returns the user id it carries.
func (s *Service) Verify(tokenString string) (domain.UserID, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return domain.UserID(id), nil
}
