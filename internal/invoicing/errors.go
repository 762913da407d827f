package invoicing

import "errors"

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrSourceNotApproved = errors.New("source order is not approved")
	ErrMissingDueDate    = errors.New("due date missing: provide a due date or payment term days")
	ErrAlreadyInvoiced   = errors.New("order already has an invoice")
	ErrAlreadyPaid       = errors.New("invoice is already fully paid")
	ErrInvalidPayment    = errors.New("payment amount must be positive")
)
