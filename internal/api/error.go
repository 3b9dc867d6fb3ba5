package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error is the uniform failure returned for any non-2xx response. Message is
// the server-provided detail when the body was parseable, otherwise the HTTP
// status text. Code carries the server's structured error code when present.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 response. Callers use this to
// invalidate the local session instead of surfacing a raw error.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsCanceled reports whether err stems from context cancellation. A canceled
// request is not a failure and must never reach an error slot.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsCode reports whether err carries the given structured error code.
func IsCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Message extracts a user-displayable message from err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
