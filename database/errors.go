package database

import "errors"

var (
	// ErrNotFound is returned by full and partial updates when the id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrMissingTimestamp is returned by inserts when the caller did not stamp created_at.
	ErrMissingTimestamp = errors.New("creation timestamp not set")

	ErrSchemaVersion = errors.New("unsupported schema version")
)
