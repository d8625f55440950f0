// Package errs defines the error kinds shared across services and handlers.
// Handlers classify errors with errors.Is and map each kind to an HTTP status,
// so services never deal in status codes and handlers never string-match.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or malformed required field. User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a missing or unverifiable credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a credential whose role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition marks an order status change not allowed by the
	// lifecycle table, either because of the current status or the actor's role.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStaleStatus marks a conditional status write that lost a race: the
	// order existed but its status no longer matched the expected pre-state.
	ErrStaleStatus = errors.New("order status changed concurrently")

	// ErrNotFound marks a referenced order or user that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation, e.g. a duplicate email.
	ErrConflict = errors.New("conflict")

	// ErrEmptyCart marks a checkout attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInFlight marks a duplicate checkout submitted while a prior
	// one for the same customer has not resolved yet.
	ErrCheckoutInFlight = errors.New("checkout already in flight")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}
