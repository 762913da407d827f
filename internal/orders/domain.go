// Package orders implements purchase and sales orders, the head of the
// order -> fulfillment -> invoice -> return document chain.
package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
)

// ============================================================================
// ORDER KIND
// ============================================================================

// Kind distinguishes purchase orders from sales orders. The two flows are
// symmetric; only the counterparty role differs.
type Kind string

const (
	KindPurchase Kind = "PURCHASE" // counterparty is a supplier
	KindSales    Kind = "SALES"    // counterparty is a customer
)

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	return k == KindPurchase || k == KindSales
}

// CodePrefix returns the document number prefix for this kind.
func (k Kind) CodePrefix() string {
	if k == KindPurchase {
		return "PO"
	}
	return "SO"
}

// ============================================================================
// ORDER ENTITY
// ============================================================================

// Order represents a purchase or sales order. Code is unique and immutable
// after creation; everything except status is immutable once approved.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	Kind           Kind            `json:"kind" db:"kind"`
	Code           string          `json:"code" db:"code"`
	CounterpartyID int64           `json:"counterparty_id" db:"counterparty_id"`
	WarehouseID    int64           `json:"warehouse_id" db:"warehouse_id"`
	OrderDate      time.Time       `json:"order_date" db:"order_date"`
	Status         document.Status `json:"status" db:"status"`
	TaxRate        decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	Subtotal       money.Amount    `json:"subtotal" db:"subtotal"`
	TaxAmount      money.Amount    `json:"tax_amount" db:"tax_amount"`
	TotalAmount    money.Amount    `json:"total_amount" db:"total_amount"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy      int64           `json:"created_by" db:"created_by"`
	// ApprovedBy/ApprovedAt record whoever decided the document, on
	// approval and on rejection alike.
	ApprovedBy *int64     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Lines          []document.Line `json:"lines,omitempty" db:"-"`
}

// DocumentKind implements document.Transitioner.
func (o *Order) DocumentKind() document.Kind { return document.KindOrder }

// CurrentStatus implements document.Transitioner.
func (o *Order) CurrentStatus() document.Status { return o.Status }

// ApplyStatus implements document.Transitioner.
func (o *Order) ApplyStatus(s document.Status, at time.Time) {
	o.Status = s
	o.UpdatedAt = at
}

// IsApproved reports whether downstream documents may reference this order.
func (o *Order) IsApproved() bool {
	return o.Status == document.StatusApproved
}

// CanEdit checks if the order can still be edited.
func (o *Order) CanEdit() bool {
	return o.Status == document.StatusDraft
}

// ComputeTotals recalculates subtotal, tax and total from the lines. All
// arithmetic stays in minor units.
func (o *Order) ComputeTotals() {
	o.Subtotal = document.SumTotals(o.Lines)
	o.TaxAmount = money.Percent(o.Subtotal, o.TaxRate)
	o.TotalAmount = money.Add(o.Subtotal, o.TaxAmount)
}

// ============================================================================
// REQUEST DTOs
// ============================================================================

// CreateLineReq represents a line item in a create request.
type CreateLineReq struct {
	ItemID    int64           `json:"item_id" validate:"required,gt=0"`
	Unit      string          `json:"unit" validate:"required,max=20"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice int64           `json:"unit_price" validate:"gte=0"`
}

// CreateRequest represents request to create an order.
type CreateRequest struct {
	CounterpartyID int64           `json:"counterparty_id" validate:"required,gt=0"`
	WarehouseID    int64           `json:"warehouse_id" validate:"required,gt=0"`
	OrderDate      time.Time       `json:"order_date" validate:"required"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Notes          *string         `json:"notes,omitempty"`
	Lines          []CreateLineReq `json:"lines" validate:"required,min=1,dive"`
}

// UpdateRequest represents request to update a DRAFT order.
type UpdateRequest struct {
	CounterpartyID *int64           `json:"counterparty_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID    *int64           `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	OrderDate      *time.Time       `json:"order_date,omitempty"`
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Lines          *[]CreateLineReq `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

// ListRequest represents filters for listing orders.
type ListRequest struct {
	Kind           Kind
	CounterpartyID *int64
	Status         *document.Status
	DateFrom       *time.Time
	DateTo         *time.Time
	Search         string
	Limit          int
	Offset         int
}
