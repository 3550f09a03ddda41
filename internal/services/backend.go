package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

// Request bounds for calls against the question-answering backend.
const (
	// DefaultRequestTimeout bounds upload and query calls.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultHealthTimeout bounds liveness probes, which are expected to answer fast.
	DefaultHealthTimeout = 5 * time.Second
)

// bypassHeader skips the interstitial warning page served by the deployment's tunnel provider.
const bypassHeader = "ngrok-skip-browser-warning"

// Classified failure outcomes for backend calls. Callers select user-facing messaging with
// errors.Is against these and errors.As against *HTTPError.
var (
	// ErrTimeout means the call was cancelled because its time bound elapsed.
	ErrTimeout = errors.New("request timed out")
	// ErrUnreachable means the transport could not reach the backend at all.
	ErrUnreachable = errors.New("backend unreachable")
)

// HTTPError is returned when the backend answered with a non-2xx status.
type HTTPError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s. %s", e.Status, e.StatusText, e.Body)
}

// Backend is the single chokepoint for outbound calls to the question-answering backend. It
// attaches the fixed protocol headers, bounds every call with a timeout-driven cancellation,
// and classifies failures into the Timeout/Unreachable/HTTPError taxonomy. It performs no
// retries; retry policy belongs to callers. Backend is stateless between calls.
type Backend struct {
	baseURL       string
	timeout       time.Duration
	healthTimeout time.Duration

	client *http.Client
}

// UploadResponse is the body of a successful upload call. Success is a pointer so callers can
// distinguish an explicit false (backend-declared failure) from an absent field (success).
type UploadResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// QueryResponse is the body of a successful query call.
type QueryResponse struct {
	Answer string `json:"answer"`
}

type queryRequest struct {
	Query string `json:"query"`
}

// NewBackend creates a Backend client against the given base URL. Non-positive timeouts fall
// back to the defaults.
func NewBackend(baseURL string, timeout, healthTimeout time.Duration) Backend {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if healthTimeout <= 0 {
		healthTimeout = DefaultHealthTimeout
	}
	return Backend{
		baseURL:       strings.TrimRight(baseURL, "/"),
		timeout:       timeout,
		healthTimeout: healthTimeout,
		client:        &http.Client{},
	}
}

// BaseURL reports the configured backend address. It is used verbatim in the user-facing
// guidance shown when the backend is unreachable.
func (b Backend) BaseURL() string {
	return b.baseURL
}

// Health probes the backend liveness endpoint with the short timeout. A nil return means the
// backend answered 2xx.
func (b Backend) Health(ctx context.Context) error {
	_, err := b.send(ctx, http.MethodGet, "/health", nil, "", b.healthTimeout)
	return err
}

// Upload streams a document to the backend as a multipart form with a single "file" field.
// The multipart writer owns the Content-Type header so the boundary survives intact.
func (b Backend) Upload(ctx context.Context, filename string, file io.Reader) (UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resBody, err := b.send(ctx, http.MethodPost, "/upload", &body, mw.FormDataContentType(), b.timeout)
	if err != nil {
		return UploadResponse{}, err
	}

	var res UploadResponse
	if err := json.Unmarshal(resBody, &res); err != nil {
		return UploadResponse{}, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return res, nil
}

// Query sends the user's question as JSON and returns the backend's answer payload.
func (b Backend) Query(ctx context.Context, text string) (QueryResponse, error) {
	reqBody, err := json.Marshal(queryRequest{Query: text})
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to encode query: %w", err)
	}

	resBody, err := b.send(ctx, http.MethodPost, "/query", bytes.NewReader(reqBody), "application/json", b.timeout)
	if err != nil {
		return QueryResponse{}, err
	}

	var res QueryResponse
	if err := json.Unmarshal(resBody, &res); err != nil {
		return QueryResponse{}, fmt.Errorf("failed to decode query response: %w", err)
	}
	return res, nil
}

func (b Backend) send(ctx context.Context, method, path string, body io.Reader, contentType string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(bypassHeader, "true")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := b.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{
			Status:     res.StatusCode,
			StatusText: http.StatusText(res.StatusCode),
			Body:       strings.TrimSpace(string(resBody)),
		}
	}

	return resBody, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
