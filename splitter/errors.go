package splitter

import "errors"

var (
	// ErrNilAnalysisResult is returned when Split receives a nil result.
	ErrNilAnalysisResult = errors.New("analysis result required")

	// ErrSplitFailed indicates the underlying text splitter failed.
	ErrSplitFailed = errors.New("markdown split failed")

	// ErrInvalidMaxChars indicates a non-positive fragment size bound.
	ErrInvalidMaxChars = errors.New("max chars must be >= 1")
)
