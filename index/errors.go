package index

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrWriterRequired is returned when no output writer is provided.
	ErrWriterRequired = errors.New("writer required")
)
