package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/docmill/docmill/ai"
)

const (
	// apiKeyHeader carries the service API key on every request.
	apiKeyHeader = "Ocp-Apim-Subscription-Key"

	// operationLocationHeader points at the job's result endpoint.
	operationLocationHeader = "Operation-Location"

	// ocrHighResolution is requested as an analysis feature so small print
	// survives layout extraction.
	featureOCRHighResolution = "ocrHighResolution"

	// markdown is the only output format the splitter understands.
	outputFormatMarkdown = "markdown"

	defaultRequestTimeout = 30 * time.Second
)

// Analyzer implements ai.DocumentAnalyzer against an Azure Document
// Intelligence style REST API. Analysis is an asynchronous job at the
// service boundary: the analyzer submits the document, then polls the
// operation until it completes, blocking the caller the whole time.
type Analyzer struct {
	client       *http.Client
	endpoint     string
	apiKey       string
	model        string
	apiVersion   string
	pollInterval time.Duration
	logger       *slog.Logger
}

var _ ai.DocumentAnalyzer = (*Analyzer)(nil)

// newAnalyzer is an internal constructor that returns the concrete type.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{
		client:       &http.Client{Timeout: defaultRequestTimeout},
		endpoint:     config.AnalyzerEndpoint,
		apiKey:       config.AnalyzerAPIKey,
		model:        config.AnalyzerModel,
		apiVersion:   config.AnalyzerAPIVersion,
		pollInterval: config.PollInterval,
		logger:       slog.Default().With("component", "docintel-analyzer"),
	}, nil
}

// NewAnalyzer creates a document analyzer using the provided configuration.
//
// Returns ai.DocumentAnalyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.DocumentAnalyzer, error) {
	return newAnalyzer(config)
}

// AnalyzeDocument submits content for layout/OCR analysis requesting
// markdown output and high-resolution OCR, polls until the job finishes,
// and returns the result's markdown text. It blocks until the job
// completes, fails, or ctx expires. No partial result is ever returned.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty document content", ErrAnalysisFailed)
	}

	opLocation, err := a.submit(ctx, content)
	if err != nil {
		return "", err
	}

	a.logger.Debug("analysis job submitted", "operation", opLocation, "bytes", len(content))
	return a.pollResult(ctx, opLocation)
}

// submit POSTs the analyze request and returns the operation location to poll.
func (a *Analyzer) submit(ctx context.Context, content []byte) (string, error) {
	body, err := json.Marshal(analyzeRequest{Base64Source: content})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %w", ErrAnalysisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.analyzeURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: submitting analysis: %w", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", a.serviceFailure(resp)
	}

	opLocation := resp.Header.Get(operationLocationHeader)
	if opLocation == "" {
		return "", fmt.Errorf("%w: service accepted the job but returned no %s header",
			ErrAnalysisFailed, operationLocationHeader)
	}
	return opLocation, nil
}

// pollResult polls the operation location until the job leaves the running
// states, honoring ctx cancellation between polls.
func (a *Analyzer) pollResult(ctx context.Context, opLocation string) (string, error) {
	for {
		op, err := a.fetchOperation(ctx, opLocation)
		if err != nil {
			return "", err
		}

		switch op.Status {
		case statusSucceeded:
			if op.AnalyzeResult == nil {
				return "", fmt.Errorf("%w: job succeeded without a result payload", ErrAnalysisFailed)
			}
			return op.AnalyzeResult.Content, nil

		case statusFailed:
			if op.Error != nil {
				return "", fmt.Errorf("%w: %s: %s", ErrAnalysisFailed, op.Error.Code, op.Error.Message)
			}
			return "", fmt.Errorf("%w: job failed without error detail", ErrAnalysisFailed)

		case statusNotStarted, statusRunning:
			// Fall through to the wait below.

		default:
			return "", fmt.Errorf("%w: unknown job status %q", ErrAnalysisFailed, op.Status)
		}

		timer := time.NewTimer(a.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, ctx.Err())
		case <-timer.C:
		}
	}
}

// fetchOperation GETs the current job envelope.
func (a *Analyzer) fetchOperation(ctx context.Context, opLocation string) (*analyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLocation, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	req.Header.Set(apiKeyHeader, a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: polling analysis: %w", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.serviceFailure(resp)
	}

	var op analyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("%w: decoding job status: %w", ErrAnalysisFailed, err)
	}
	return &op, nil
}

// analyzeURL builds the analyze submission URL with the output format and
// OCR feature the pipeline requires.
func (a *Analyzer) analyzeURL() string {
	q := url.Values{}
	q.Set("api-version", a.apiVersion)
	q.Set("outputContentFormat", outputFormatMarkdown)
	q.Set("features", featureOCRHighResolution)
	return fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s",
		a.endpoint, a.model, q.Encode())
}

// serviceFailure turns a non-2xx response into an error, preserving the
// service's code and message when the body carries them.
func (a *Analyzer) serviceFailure(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != nil {
		if resp.StatusCode == http.StatusUnsupportedMediaType || er.Error.Code == "InvalidContent" {
			return fmt.Errorf("%w: %s: %s", ErrUnsupportedFormat, er.Error.Code, er.Error.Message)
		}
		return fmt.Errorf("%w: %s: %s", ErrAnalysisFailed, er.Error.Code, er.Error.Message)
	}

	if resp.StatusCode == http.StatusUnsupportedMediaType {
		return fmt.Errorf("%w: status %d", ErrUnsupportedFormat, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", ErrAnalysisFailed, resp.StatusCode, string(data))
}
