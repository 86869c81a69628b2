package docintel

import "errors"

var (
	// ErrAnalysisFailed indicates the analysis service failed, timed out,
	// or returned a malformed result.
	ErrAnalysisFailed = errors.New("document analysis failed")

	// ErrUnsupportedFormat indicates the service rejected the document's
	// content format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
