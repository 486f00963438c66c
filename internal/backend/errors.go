package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnavailable is returned when the backend cannot be reached because the
// circuit breaker is open.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the server-provided message, if the body carried one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// IsClientError reports whether the backend rejected the request itself.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// MessageOf returns the server-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorBody matches the backend's error envelope. message is either a string or
// a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Message) == 0 {
		return apiErr
	}

	var single string
	if err := json.Unmarshal(body.Message, &single); err == nil {
		apiErr.Message = strings.TrimSpace(single)
		return apiErr
	}

	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		apiErr.Message = strings.TrimSpace(list[0])
	}
	return apiErr
}
