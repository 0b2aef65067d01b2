package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/guardtree/guardtree-api/internal/domain/users"
)

// Service implements use-cases untuk User accounts.
type Service struct {
	Repo domain.Repository
}

func (s *Service) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// CreateCommand untuk register user baru
type CreateCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
	IsAdmin  bool
}

// Create registers a new user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}
	role := cmd.Role
	if role == "" {
		role = "user"
	}

	u := &domain.User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      cmd.IsAdmin,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update changes name/email; a changed email must stay unique.
func (s *Service) Update(ctx context.Context, id domain.UserID, upd domain.Update) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != u.Email {
		existing, err := s.Repo.GetByEmail(ctx, *upd.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrEmailTaken
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRole changes role/isAdmin. Admin gating happens at the router.
func (s *Service) UpdateRole(ctx context.Context, id domain.UserID, upd domain.RoleUpdate) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Role != "" {
		u.Role = upd.Role
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword verifies the old password before storing the new hash.
func (s *Service) UpdatePassword(ctx context.Context, id domain.UserID, oldPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CheckPassword(oldPassword, u.PasswordHash) {
		return domain.ErrBadPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) Delete(ctx context.Context, id domain.UserID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
