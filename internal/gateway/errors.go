package gateway

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("backend returned an unknown role")

// APIError is a non-2xx answer from the backend. Payload is the decoded JSON
// body, or the raw text when the body is not JSON.
type APIError struct {
	Status  int
	Message string
	Payload any
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) StatusCode() int {
	return e.Status
}

func newAPIError(path string, status int, payload any) *APIError {
	msg := fmt.Sprintf("request to %s failed with status %d", path, status)
	if m, ok := payload.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			msg = s
		}
	}
	return &APIError{Status: status, Message: msg, Payload: payload}
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
