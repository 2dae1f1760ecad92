package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks out-of-domain calls (programmer error).
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingField marks a malformed generation request. Not retryable.
	ErrMissingField = errors.New("missing field")
	// ErrParse marks provider output that could not be turned into the expected shape.
	ErrParse = errors.New("parse error")
	// ErrInsufficientCredit marks a user whose balance cannot cover the estimate.
	ErrInsufficientCredit = errors.New("insufficient credit")
	// ErrProviderCallFailed marks network, timeout and provider-side failures.
	ErrProviderCallFailed = errors.New("provider call failed")
)

type MissingFieldError struct {
	Stage string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s required", e.Field)
	}
	return fmt.Sprintf("%s: %s required", e.Stage, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

func MissingField(stage, field string) error {
	return &MissingFieldError{Stage: stage, Field: field}
}

// ParseError keeps the raw provider text so failures can be diagnosed.
type ParseError struct {
	Stage  string
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %s", e.Stage, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

type InsufficientCreditError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("insufficient credit: need %d, have %d", e.Required, e.Balance)
}

func (e *InsufficientCreditError) Unwrap() error { return ErrInsufficientCredit }

// ProviderCallFailed wraps a transport or provider error so callers can match on ErrProviderCallFailed.
func ProviderCallFailed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrProviderCallFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrProviderCallFailed, err)
}

func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Retryable reports whether re-issuing the same request may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrProviderCallFailed) || errors.Is(err, ErrParse)
}
