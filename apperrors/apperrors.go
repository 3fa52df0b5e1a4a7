package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindConcurrency     Kind = "concurrency"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// Error represents an application error with an HTTP status code.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, code int, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Common error values
var (
	ErrInvalidArgument = New(KindInvalidArgument, http.StatusBadRequest, "Invalid argument")
	ErrUnauthenticated = New(KindUnauthenticated, http.StatusUnauthorized, "Unauthenticated")
	ErrForbidden       = New(KindForbidden, http.StatusForbidden, "Forbidden")
	ErrNotFound        = New(KindNotFound, http.StatusNotFound, "Not found")
	ErrConflict        = New(KindConflict, http.StatusConflict, "Conflict")
	ErrConcurrency     = New(KindConcurrency, http.StatusInternalServerError, "Concurrent modification")
	ErrUnavailable     = New(KindUnavailable, http.StatusServiceUnavailable, "Service unavailable")
	ErrInternalServer  = New(KindInternal, http.StatusInternalServerError, "Internal server error")
)

// InvalidArgument returns a 400 error with a caller-supplied message.
func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, http.StatusBadRequest, message)
}

// Unauthenticated returns a 401 error with a caller-supplied message.
func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, http.StatusUnauthorized, message)
}

// Forbidden returns a 403 error with a caller-supplied message.
func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message)
}

// NotFound returns a 404 error with a caller-supplied message.
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

// Wrap attaches an underlying cause to a copy of base, keeping its kind and code.
func Wrap(base *Error, err error) *Error {
	return &Error{
		Kind:    base.Kind,
		Code:    base.Code,
		Message: base.Message,
		Err:     err,
	}
}

// WrapMsg attaches a cause and replaces the message, keeping kind and code.
func WrapMsg(base *Error, message string, err error) *Error {
	return &Error{
		Kind:    base.Kind,
		Code:    base.Code,
		Message: message,
		Err:     err,
	}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// From extracts the application error from err, defaulting to a wrapped 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternalServer, err)
}

// Respond writes err to the gin context as JSON with the mapped status code.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message, "kind": appErr.Kind})
}
