package returns

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrNotFound       = errors.New("return not found")
	ErrEmptyLines     = errors.New("return has no lines")
	ErrItemNotOnOrder = errors.New("item is not present on the originating order")
)

// ============================================================================
// DOMAIN TYPES
// ============================================================================

// Return sends goods back against an invoiced order. Lines reference
// items of the originating order and carry that order's unit prices; the
// refund carries the order's tax rate on top of the line sum, fixed at
// creation like an invoice's totals.
type Return struct {
	ID            int64           `json:"id" db:"id"`
	Kind          orders.Kind     `json:"kind" db:"kind"`
	Code          string          `json:"code" db:"code"`
	InvoiceID     int64           `json:"invoice_id" db:"invoice_id"`
	InvoiceCode   string          `json:"invoice_code" db:"invoice_code"`
	OrderID       int64           `json:"order_id" db:"order_id"`
	ReturnDate    time.Time       `json:"return_date" db:"return_date"`
	Status        document.Status `json:"status" db:"status"`
	TotalAmount   money.Amount    `json:"total_amount" db:"total_amount"`
	TaxAmount     money.Amount    `json:"tax_amount" db:"tax_amount"`
	TotalAfterTax money.Amount    `json:"total_after_tax" db:"total_after_tax"`
	Reason        *string         `json:"reason,omitempty" db:"reason"`
	CreatedBy     int64           `json:"created_by" db:"created_by"`
	ApprovedBy    *int64          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Lines []document.Line `json:"lines,omitempty" db:"-"`
}

// DocumentKind implements document.Transitioner.
func (r *Return) DocumentKind() document.Kind { return document.KindReturn }

// CurrentStatus implements document.Transitioner.
func (r *Return) CurrentStatus() document.Status { return r.Status }

// ApplyStatus implements document.Transitioner.
func (r *Return) ApplyStatus(s document.Status, at time.Time) {
	r.Status = s
	r.UpdatedAt = at
}

// CodePrefix returns the return code prefix for an order kind.
func CodePrefix(kind orders.Kind) string {
	if kind == orders.KindSales {
		return "SR"
	}
	return "PR"
}

// ============================================================================
// REQUEST / RESPONSE DTOS
// ============================================================================

type LineReq struct {
	ItemID   int64           `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type CreateRequest struct {
	InvoiceID  int64     `json:"invoice_id" validate:"required"`
	ReturnDate time.Time `json:"return_date" validate:"required"`
	Reason     *string   `json:"reason,omitempty"`
	Lines      []LineReq `json:"lines" validate:"required,min=1,dive"`
}

type ListRequest struct {
	Kind      orders.Kind
	InvoiceID *int64
	Status    *document.Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
