package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrNoTiers = errors.New("no guest tiers configured")
	ErrTierGap = errors.New("guest count falls between configured tiers")
	ErrNoPrice = errors.New("no tier and no fallback price configured")
)

// ValidationError reports malformed input rejected before any computation.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports missing pricing data. It is kept distinct from a
// price that legitimately resolved to zero.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
