package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind is the machine-readable category of an application error.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInvalid      Kind = "invalid"
	KindInternal     Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"kind"`
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

// Is matches errors of the same kind, so errors.Is(err, ErrNotFound) works
// for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(gin.H{"error": e})
	return string(b)
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

// Unauthorized is returned when an identified actor may not perform the
// operation (not the owner, not an admin).
func Unauthorized(message string) *Error {
	return New(http.StatusForbidden, KindUnauthorized, message, nil)
}

// Unauthenticated is returned when no identity was presented at all.
func Unauthenticated(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Invalid(message string) *Error {
	return New(http.StatusBadRequest, KindInvalid, message, nil)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound     = NotFound("Not found")
	ErrConflict     = Conflict("Conflict")
	ErrUnauthorized = Unauthorized("Unauthorized")
	ErrInvalid      = Invalid("Invalid input")
	ErrInternal     = Internal("Internal server error", nil)
)

// From converts any error into an *Error, defaulting to internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Respond writes err as a JSON error body and aborts the request.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr})
}

// ErrorMiddleware renders the last error attached with c.Error when the
// handler did not write a response itself.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
		}
	}
}
