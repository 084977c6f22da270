package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies recoverable failures so handlers can map them to a
// status code without string matching.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindSoldOut      ErrorKind = "sold_out"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindInvalid      ErrorKind = "invalid"
	KindInternal     ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *AppError  { return NewError(KindNotFound, message) }
func SoldOut(message string) *AppError   { return NewError(KindSoldOut, message) }
func Forbidden(message string) *AppError { return NewError(KindForbidden, message) }
func Conflict(message string) *AppError  { return NewError(KindConflict, message) }
func Invalid(message string) *AppError   { return NewError(KindInvalid, message) }

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindSoldOut, KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError translates a service error into the standard error
// shape. Unknown errors are masked as a plain internal failure.
func RespondWithAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), ErrorResponse{
			Error:   string(appErr.Kind),
			Message: appErr.Message,
		})
		return
	}
	RespondWithError(c, http.StatusInternalServerError, "Something went wrong.")
}
