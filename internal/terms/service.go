package terms

import (
	"context"
	"strings"
)

// Repository defines data access methods for payment terms.
type Repository interface {
	List(ctx context.Context, req ListRequest) ([]PaymentTerm, int, error)
	Get(ctx context.Context, id int64) (*PaymentTerm, error)
	Create(ctx context.Context, term PaymentTerm) (*PaymentTerm, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// Service handles payment term business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns payment terms matching the filters.
func (s *Service) List(ctx context.Context, req ListRequest) ([]PaymentTerm, int, error) {
	return s.repo.List(ctx, req)
}

// Get returns one payment term.
func (s *Service) Get(ctx context.Context, id int64) (*PaymentTerm, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new payment term.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*PaymentTerm, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.Days < 0 {
		return nil, ErrInvalidDays
	}
	term := PaymentTerm{
		Name:        strings.TrimSpace(req.Name),
		Days:        req.Days,
		Description: req.Description,
		IsActive:    true,
	}
	return s.repo.Create(ctx, term)
}

// Update applies partial changes to a payment term.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*PaymentTerm, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Days != nil {
		if *req.Days < 0 {
			return nil, ErrInvalidDays
		}
		updates["days"] = *req.Days
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a payment term.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
