package docintel

// Wire types for the document analysis REST API. Only the fields the
// pipeline consumes are modeled; the service returns far more layout
// detail than the content string used here.

// analyzeRequest is the analyze submission body. The document bytes travel
// base64-encoded in the request rather than by URL reference.
type analyzeRequest struct {
	Base64Source []byte `json:"base64Source"`
}

// Analysis job states reported by the result endpoint.
const (
	statusNotStarted = "notStarted"
	statusRunning    = "running"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
)

// analyzeOperation is the polled job envelope.
type analyzeOperation struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult,omitempty"`
	Error         *serviceError  `json:"error,omitempty"`
}

// analyzeResult carries the final structured output of a succeeded job.
type analyzeResult struct {
	ContentFormat string `json:"contentFormat"`
	Content       string `json:"content"`
}

// serviceError is the service's error shape, returned both in failed job
// envelopes and as the body of non-2xx responses.
type serviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps serviceError in non-2xx response bodies.
type errorResponse struct {
	Error *serviceError `json:"error"`
}
