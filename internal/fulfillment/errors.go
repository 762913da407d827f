package fulfillment

import "errors"

var (
	ErrNotFound         = errors.New("fulfillment document not found")
	ErrOrderNotApproved = errors.New("source order is not approved")
	ErrKindMismatch     = errors.New("order kind does not match fulfillment kind")
	ErrEmptyFulfillment = errors.New("fulfillment has no lines with positive quantity")
	ErrOverFulfillment  = errors.New("fulfilled quantity exceeds ordered quantity")
	ErrNegativeQuantity = errors.New("fulfilled quantity is negative")
	ErrUnknownItem      = errors.New("item is not present on the source order")
)
