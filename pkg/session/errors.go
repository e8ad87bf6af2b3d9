package session

import (
	"errors"

	"github.com/goliatone/go-careforms/pkg/messages"
)

var (
	// ErrInFlight is returned when Submit is called while a generation is
	// still running.
	ErrInFlight = errors.New("session: generation already in flight")
	// ErrUnknownField is returned when toggling an id outside the template.
	ErrUnknownField = errors.New("session: field not in template")
	// ErrUnknownProfile is returned when selecting a profile that was not
	// part of the last lookup.
	ErrUnknownProfile = errors.New("session: profile not in lookup result")
)

// ValidationError is a submission rejected before contacting the service.
// Message is the text shown to the user.
type ValidationError struct {
	Key     messages.Key
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GenerationError is a failed generation call. Message is what the user sees:
// the server's own text when it sent one, the generic failure otherwise.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
