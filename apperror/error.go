// Package apperror carries typed application errors that map onto HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeAllocationExhausted = "ALLOCATION_EXHAUSTED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is; matching is by Code only.
var (
	ErrInvalidInput        = &AppError{Code: CodeInvalidInput}
	ErrDuplicateKey        = &AppError{Code: CodeDuplicateKey}
	ErrAllocationExhausted = &AppError{Code: CodeAllocationExhausted}
	ErrNotFound            = &AppError{Code: CodeNotFound}
	ErrConflict            = &AppError{Code: CodeConflict}
)

// AppError is a machine-readable error with an HTTP status and optional details.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMissingFields lists every field that failed validation.
func NewMissingFields(fields []string) *AppError {
	return NewInvalidInput("missing or invalid fields").WithDetail("fields", fields)
}

func NewDuplicateKey(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicateKey,
		Message:    fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

func NewAllocationExhausted(scope string, attempts int) *AppError {
	return &AppError{
		Code:       CodeAllocationExhausted,
		Message:    fmt.Sprintf("no free receipt number in scope %s after %d attempts", scope, attempts),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"scope": scope, "attempts": attempts},
	}
}

func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternal hides err from clients; it is still reachable through Unwrap.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// AsAppError unwraps err to an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

// GetHTTPStatus returns the status to answer with for err.
func GetHTTPStatus(err error) int {
	appErr := AsAppError(err)
	if appErr == nil {
		return http.StatusOK
	}
	if appErr.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return appErr.HTTPStatus
}
