package document

import "errors"

var (
	// ErrInvalidLine indicates a line with non-positive quantity or negative price.
	ErrInvalidLine = errors.New("document: invalid line")
	// ErrIllegalTransition occurs when a status change violates the workflow.
	ErrIllegalTransition = errors.New("document: illegal status transition")
	// ErrUnknownKind indicates a document kind the machine does not govern.
	ErrUnknownKind = errors.New("document: unknown kind")
)
