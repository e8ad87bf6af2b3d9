package client

import (
	"errors"
	"fmt"
)

var (
	// ErrBaseURL is returned when the service URL is missing or malformed.
	ErrBaseURL = errors.New("client: invalid service url")
	// ErrInvalidRequest wraps contract violations detected before sending.
	ErrInvalidRequest = errors.New("client: request violates service contract")
	// ErrInvalidResponse wraps undecodable or contract-violating responses.
	ErrInvalidResponse = errors.New("client: unexpected response payload")
)

// ServerError reports a non-success answer from the service. FromBody is set
// when Message came from the JSON {"error": ...} payload and can be shown to
// the user as-is.
type ServerError struct {
	Status   int
	Message  string
	FromBody bool
}

func (e *ServerError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Server error: %d", e.Status)
}

// ServerMessage returns the verbatim server message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.FromBody && serverErr.Message != "" {
		return serverErr.Message, true
	}
	return "", false
}

// Describe renders err for user-facing text: server errors keep their own
// message, anything else falls back to err.Error().
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Error()
	}
	return err.Error()
}
