package fulfillment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/samudra-erp/samudra-erp/internal/document"
)

// ============================================================================
// DOMAIN TYPES
// ============================================================================

// Document is a goods receipt (against a purchase order) or a delivery
// order (against a sales order). Which one is decided by Kind.
type Document struct {
	ID          int64           `json:"id" db:"id"`
	Kind        document.Kind   `json:"kind" db:"kind"`
	Code        string          `json:"code" db:"code"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	OrderCode   string          `json:"order_code" db:"order_code"`
	WarehouseID int64           `json:"warehouse_id" db:"warehouse_id"`
	DocDate     time.Time       `json:"doc_date" db:"doc_date"`
	Status      document.Status `json:"status" db:"status"`
	Notes       *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy   int64           `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	Lines []Line `json:"lines,omitempty" db:"-"`
}

// DocumentKind implements document.Transitioner.
func (d *Document) DocumentKind() document.Kind { return d.Kind }

// CurrentStatus implements document.Transitioner.
func (d *Document) CurrentStatus() document.Status { return d.Status }

// ApplyStatus implements document.Transitioner.
func (d *Document) ApplyStatus(s document.Status, at time.Time) {
	d.Status = s
	d.UpdatedAt = at
}

// Line records how much of one ordered item this document fulfills.
// OrderedQty is carried from the source order so the row is
// self-contained when read back later.
type Line struct {
	ItemID       int64           `json:"item_id" db:"item_id"`
	Unit         string          `json:"unit" db:"unit"`
	OrderedQty   decimal.Decimal `json:"ordered_qty" db:"ordered_qty"`
	FulfilledQty decimal.Decimal `json:"fulfilled_qty" db:"fulfilled_qty"`
}

// CodePrefix returns the document code prefix for a fulfillment kind.
func CodePrefix(kind document.Kind) string {
	if kind == document.KindDelivery {
		return "DO"
	}
	return "GR"
}

// ============================================================================
// REQUEST / RESPONSE DTOS
// ============================================================================

// LineReq is a requested quantity for one ordered item. When FulfilledQty
// is nil the ordered quantity is used as-is.
type LineReq struct {
	ItemID       int64            `json:"item_id" validate:"required"`
	FulfilledQty *decimal.Decimal `json:"fulfilled_qty,omitempty"`
}

type CreateRequest struct {
	OrderID int64     `json:"order_id" validate:"required"`
	DocDate time.Time `json:"doc_date" validate:"required"`
	Notes   *string   `json:"notes,omitempty"`

	// Lines may be omitted entirely, in which case every order line is
	// fulfilled in full.
	Lines []LineReq `json:"lines,omitempty"`
}

type ListRequest struct {
	Kind     document.Kind
	OrderID  *int64
	Status   *document.Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
