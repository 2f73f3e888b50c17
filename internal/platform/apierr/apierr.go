package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes cover every business-rule failure the core can surface. Learner-facing
// denials (attempt limit, time expired) carry their own codes so callers can
// render them apart from validation failures.
const (
	CodeValidation   = "validation_failed"
	CodeConflict     = "conflict"
	CodeNotFound     = "not_found"
	CodeAttemptLimit = "attempt_limit_exceeded"
	CodeTimeExpired  = "time_expired"
	CodeInvalidState = "invalid_state"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal"
)

// FieldError names a single unmet rule on a specific field or entity.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields holds every failed rule for validation errors, never just the
	// first one.
	Fields []FieldError
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

func Validation(err error, fields ...FieldError) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidation, Err: err, Fields: fields}
}

func Conflict(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: fmt.Errorf("%s not found", what)}
}

func AttemptLimit(err error) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeAttemptLimit, Err: err}
}

func TimeExpired(err error) *Error {
	return &Error{Status: http.StatusGone, Code: CodeTimeExpired, Err: err}
}

func InvalidState(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeInvalidState, Err: err}
}

func Forbidden(err error) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Err: err}
}

// Internal wraps repository and storage faults. The wrapped error is kept for
// logs; callers see only the opaque code.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
}

// CodeOf extracts the taxonomy code, or CodeInternal for unclassified errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}

// StatusOf maps an error to its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// FieldsOf returns the per-field failures for validation errors.
func FieldsOf(err error) []FieldError {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
