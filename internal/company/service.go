package company

import (
	"context"
	"strings"
)

// Repository defines data access methods for the company profile.
type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Upsert(ctx context.Context, p Profile) (*Profile, error)
}

// Service handles company profile logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the company profile.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	return s.repo.Get(ctx)
}

// Update replaces the profile with the submitted fields.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Profile, error) {
	p := Profile{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		TaxID:   strings.TrimSpace(req.TaxID),
	}
	return s.repo.Upsert(ctx, p)
}
