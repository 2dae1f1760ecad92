package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps a domain error onto its HTTP status and stable code.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, apperrors.ErrInsufficientCredit):
		return New(http.StatusPaymentRequired, "insufficient_credit", err)
	case errors.Is(err, apperrors.ErrMissingField):
		return New(http.StatusBadRequest, "missing_field", err)
	case errors.Is(err, apperrors.ErrInvalidInput):
		return New(http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrParse):
		return New(http.StatusBadGateway, "parse_error", err)
	case errors.Is(err, apperrors.ErrProviderCallFailed):
		return New(http.StatusBadGateway, "provider_call_failed", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
