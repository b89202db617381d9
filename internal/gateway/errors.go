package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericFailureMessage is shown when neither the server nor the transport
// gave anything more specific.
const GenericFailureMessage = "Request failed. Please try again."

// APIError is a non-2xx response.
type APIError struct {
	Method        string
	Path          string
	StatusCode    int
	ServerMessage string
}

func (e *APIError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError is a request that never produced a usable response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerMessage returns the server-supplied reason carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ServerMessage != "" {
		return apiErr.ServerMessage, true
	}
	return "", false
}

// UserMessage turns a gateway error into operator-facing text. A message
// from the server always wins over a generic description.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := ServerMessage(err); ok {
		return msg
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return "Session expired or missing. Run: homeadmin login"
		case http.StatusForbidden:
			return "Access denied."
		case http.StatusNotFound:
			return "Record not found."
		}
		return fmt.Sprintf("Request failed with status %d.", apiErr.StatusCode)
	}

	if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrSessionMismatch) {
		return err.Error() + ". Run: homeadmin login"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out."
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		msg := strings.ToLower(transportErr.Err.Error())
		if strings.Contains(msg, "decode response") {
			return "Unexpected response from server."
		}
		return "Network error. Check your connection and the API URL."
	}
	return GenericFailureMessage
}
