package invoicing

import (
	"time"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/money"
	"github.com/samudra-erp/samudra-erp/internal/orders"
)

// ============================================================================
// DOMAIN TYPES
// ============================================================================

// Invoice bills one approved order. The money columns are copied from the
// order at composition time and never recomputed afterwards, later edits
// to master data leave issued invoices untouched.
type Invoice struct {
	ID             int64           `json:"id" db:"id"`
	Kind           orders.Kind     `json:"kind" db:"kind"`
	Code           string          `json:"code" db:"code"`
	OrderID        int64           `json:"order_id" db:"order_id"`
	OrderCode      string          `json:"order_code" db:"order_code"`
	CounterpartyID int64           `json:"counterparty_id" db:"counterparty_id"`
	InvoiceDate    time.Time       `json:"invoice_date" db:"invoice_date"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	Status         document.Status `json:"status" db:"status"`
	Subtotal       money.Amount    `json:"subtotal" db:"subtotal"`
	TaxAmount      money.Amount    `json:"tax_amount" db:"tax_amount"`
	TotalAmount    money.Amount    `json:"total_amount" db:"total_amount"`
	PaidAmount     money.Amount    `json:"paid_amount" db:"paid_amount"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy      int64           `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	Payments []Payment `json:"payments,omitempty" db:"-"`
}

// DocumentKind implements document.Transitioner.
func (i *Invoice) DocumentKind() document.Kind { return document.KindInvoice }

// CurrentStatus implements document.Transitioner.
func (i *Invoice) CurrentStatus() document.Status { return i.Status }

// ApplyStatus implements document.Transitioner.
func (i *Invoice) ApplyStatus(s document.Status, at time.Time) {
	i.Status = s
	i.UpdatedAt = at
}

// Outstanding returns the unpaid remainder. Overpaid invoices report zero.
func (i *Invoice) Outstanding() money.Amount {
	if i.PaidAmount >= i.TotalAmount {
		return 0
	}
	return i.TotalAmount - i.PaidAmount
}

// Payment is one settlement recorded against an invoice.
type Payment struct {
	ID          int64        `json:"id" db:"id"`
	InvoiceID   int64        `json:"invoice_id" db:"invoice_id"`
	PaymentDate time.Time    `json:"payment_date" db:"payment_date"`
	Amount      money.Amount `json:"amount" db:"amount"`
	Method      string       `json:"method" db:"method"`
	Reference   *string      `json:"reference,omitempty" db:"reference"`
	Notes       *string      `json:"notes,omitempty" db:"notes"`
	CreatedBy   int64        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// CodePrefix returns the invoice code prefix for an order kind.
func CodePrefix(kind orders.Kind) string {
	if kind == orders.KindSales {
		return "SINV"
	}
	return "PINV"
}

// ============================================================================
// REQUEST / RESPONSE DTOS
// ============================================================================

type CreateRequest struct {
	OrderID     int64      `json:"order_id" validate:"required"`
	InvoiceDate time.Time  `json:"invoice_date" validate:"required"`
	TermDays    *int       `json:"term_days,omitempty" validate:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type PaymentRequest struct {
	PaymentDate time.Time `json:"payment_date" validate:"required"`
	Amount      int64     `json:"amount" validate:"required"`
	Method      string    `json:"method" validate:"required,oneof=CASH TRANSFER CHEQUE GIRO"`
	Reference   *string   `json:"reference,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

type ListRequest struct {
	Kind           orders.Kind
	Status         *document.Status
	CounterpartyID *int64
	DueBefore      *time.Time
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
	Offset         int
}
