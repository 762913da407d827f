package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a login token stays valid.
const TokenTTL = 12 * time.Hour

// Repository defines data access methods for users and tokens.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	CreateToken(ctx context.Context, token Token) error
	FindToken(ctx context.Context, value string) (*Token, error)
	DeleteToken(ctx context.Context, value string) error
}

// Service handles account management and login.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token := Token{
		Value:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(TokenTTL),
	}
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt, User: *user}, nil
}

// Logout revokes a bearer token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, tokenValue string) error {
	return s.repo.DeleteToken(ctx, tokenValue)
}

// ResolveToken maps a bearer token to the account it belongs to.
func (s *Service) ResolveToken(ctx context.Context, tokenValue string) (*User, error) {
	token, err := s.repo.FindToken(ctx, tokenValue)
	if err != nil {
		return nil, ErrTokenExpired
	}
	if token.ExpiresAt.Before(s.now()) {
		_ = s.repo.DeleteToken(ctx, tokenValue)
		return nil, ErrTokenExpired
	}
	user, err := s.repo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, ErrTokenExpired
	}
	if !user.IsActive {
		return nil, ErrTokenExpired
	}
	return user, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves one account.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers an account with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.repo.Create(ctx, User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update edits an account. A new password is rehashed, other fields pass
// through as partial updates.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}
