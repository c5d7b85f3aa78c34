package booking

import "errors"

// Recoverable rejections surface to the caller as typed errors with a
// human-readable reason. ErrIntegrityViolation is fatal: the transition
// aborts without committing and the condition is logged, never shown as
// an ordinary validation failure.
var (
	ErrInvalidRange       = errors.New("invalid date range")
	ErrOverlap            = errors.New("warehouse already booked for the selected dates")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrIntegrityViolation = errors.New("integrity violation")
)
