package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type CustomError struct {
	Code    int
	Message string
	cause   error
}

func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

func Technical(message string) error {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func BadRequest(message string) error {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func Unauthorized(message string) error {
	return &CustomError{
		Code:    http.StatusUnauthorized,
		Message: message,
	}
}

func Forbidden(message string) error {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: message,
	}
}

func NotFound(message string) error {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: message,
	}
}

func Conflict(message string) error {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// Upstream maps a status returned by the portfolio API to a local error.
// 4xx statuses are kept as-is, anything else becomes 502.
func Upstream(status int, message string) error {
	code := status
	if status < 400 || status >= 500 {
		code = http.StatusBadGateway
	}
	return &CustomError{
		Code:    code,
		Message: message,
	}
}

// Unreachable wraps a transport failure (dns, refused, timeout) talking to the backend.
func Unreachable(err error) error {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: fmt.Sprintf("backend unreachable: %v", err),
		cause:   err,
	}
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

func IsUnauthorized(err error) bool {
	return err != nil && GetStatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return err != nil && GetStatusCode(err) == http.StatusNotFound
}

func New(message string) error {
	return errors.New(message)
}

func Is(err error, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
