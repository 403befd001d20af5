package services

import "errors"

// Common service-level errors
var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrEntryNotFound = errors.New("ledger entry not found")
)
