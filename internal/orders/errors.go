package orders

import "errors"

// Domain errors for orders.
var (
	// ErrNotFound indicates the requested order was not found.
	ErrNotFound = errors.New("order not found")

	// ErrNotDraft occurs when editing an order past DRAFT.
	ErrNotDraft = errors.New("order can only be edited in DRAFT status")
	// ErrEmptyLines indicates an order without any line.
	ErrEmptyLines = errors.New("at least one line is required")
	// ErrInvalidTaxRate indicates a tax rate outside [0, 1).
	ErrInvalidTaxRate = errors.New("tax rate must be a fraction between 0 and 1")
	// ErrInvalidKind indicates an unrecognised order kind.
	ErrInvalidKind = errors.New("order kind must be PURCHASE or SALES")
)
