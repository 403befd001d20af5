package transcriber

import (
	"errors"
	"fmt"
)

// Validation failures. Validate returns them inside a *ValidationError.
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrTooLarge          = errors.New("audio file too large")
	ErrEmptyFile         = errors.New("audio file is empty or unreadable")
	ErrTooLong           = errors.New("audio too long")
)

// Engine failures.
var (
	ErrNetwork   = errors.New("network error")
	ErrBadStatus = errors.New("unexpected response status")
	ErrParse     = errors.New("failed to parse response")
	ErrNoSpeech  = errors.New("no speech detected in audio")
)

// ValidationError carries a message fit to show the user.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the speech endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}
