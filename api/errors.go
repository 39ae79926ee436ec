package api

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Error is a non-2xx API response. Message holds the server's `error`
// payload field when present, so screens can display it inline.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// ErrorMessage extracts a display string from an API call failure: the
// server's error payload when available, otherwise fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func errorFromResponse(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &Error{Status: status, Message: payload.Error}
}
