package company

import (
	"errors"
	"time"
)

// ErrNotFound indicates the profile row has not been seeded.
var ErrNotFound = errors.New("company profile not found")

// Profile is the single company identity record shown on printed documents.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	TaxID     string    `json:"tax_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateRequest carries editable profile fields.
type UpdateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Address string `json:"address" validate:"max=500"`
	City    string `json:"city" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	TaxID   string `json:"tax_id" validate:"max=50"`
}
