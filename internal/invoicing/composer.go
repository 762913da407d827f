package invoicing

import (
	"fmt"
	"time"

	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/orders"
	"github.com/samudra-erp/samudra-erp/internal/terms"
)

// ComposeOptions control how Compose dates the invoice. Exactly one of
// DueDate and TermDays decides the due date, DueDate wins when both are
// set.
type ComposeOptions struct {
	InvoiceDate time.Time
	TermDays    *int
	DueDate     *time.Time
	Notes       *string
}

// Compose builds an UNPAID invoice from an approved order. The order's
// totals are copied onto the invoice as they stand now.
func Compose(order *orders.Order, opts ComposeOptions) (*Invoice, error) {
	if !order.IsApproved() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrSourceNotApproved, order.Code, order.Status)
	}

	var dueDate time.Time
	switch {
	case opts.DueDate != nil:
		dueDate = *opts.DueDate
	case opts.TermDays != nil:
		dueDate = terms.Resolve(opts.InvoiceDate, *opts.TermDays)
	default:
		return nil, ErrMissingDueDate
	}

	return &Invoice{
		Kind:           order.Kind,
		OrderID:        order.ID,
		OrderCode:      order.Code,
		CounterpartyID: order.CounterpartyID,
		InvoiceDate:    opts.InvoiceDate,
		DueDate:        dueDate,
		Status:         document.StatusUnpaid,
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		TotalAmount:    order.TotalAmount,
		Notes:          opts.Notes,
	}, nil
}
