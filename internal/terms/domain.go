// Package terms manages payment term reference data and due date resolution.
package terms

import (
	"errors"
	"time"
)

// PaymentTerm defines a due date offset applied to invoices.
type PaymentTerm struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Days        int       `json:"days" db:"days"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRequest represents request to create a payment term.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Days        int     `json:"days" validate:"gte=0,lte=365"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequest represents request to update a payment term.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Days        *int    `json:"days,omitempty" validate:"omitempty,gte=0,lte=365"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ListRequest represents filters for listing payment terms.
type ListRequest struct {
	IsActive *bool
	Search   string
	Limit    int
	Offset   int
}

var (
	// ErrNotFound indicates the payment term does not exist.
	ErrNotFound = errors.New("payment term not found")
	// ErrInvalidDays indicates a negative day offset.
	ErrInvalidDays = errors.New("payment term days must not be negative")
	// ErrNameRequired indicates a missing term name.
	ErrNameRequired = errors.New("payment term name is required")
)
