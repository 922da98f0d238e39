package retry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Category groups outbound call failures by how the caller should react.
type Category string

const (
	CategoryNetwork     Category = "network"
	CategoryClientError Category = "client_error"
	CategoryServerError Category = "server_error"
	CategoryRateLimited Category = "rate_limited"
	CategoryUnknown     Category = "unknown"
)

// Retriable reports whether another attempt can reasonably succeed.
// Client errors are caller mistakes; retrying them wastes time and can
// duplicate non-idempotent side effects. Unknown is conservative.
func (c Category) Retriable() bool {
	switch c {
	case CategoryNetwork, CategoryServerError, CategoryRateLimited:
		return true
	}
	return false
}

// HTTPMetadata is a snapshot of a non-2xx response taken at classification
// time. The response body/stream is not safely re-readable later, so
// everything the caller may need is copied here.
type HTTPMetadata struct {
	Status     int
	StatusText string
	Body       string
	Headers    http.Header
	RetryAfter time.Duration // 0 when the server sent no usable hint
}

// HTTPError carries a non-2xx response through the error chain so Classify
// can see its status and headers. HTTP clients construct it after draining
// the body; it never holds a live response.
type HTTPError struct {
	Status     int
	StatusText string
	Body       string
	Headers    http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d %s", e.Status, e.StatusText)
}

// APIError is the uniform failure type surfaced by the retry executor.
// It is constructed once per failed attempt and never mutated.
type APIError struct {
	Message   string
	Category  Category
	HTTP      *HTTPMetadata // nil unless the failure arose from an HTTP response
	Retriable bool
	Source    string // calling operation, e.g. "footer.Config"
	Err       error  // underlying cause
}

func (e *APIError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Source, e.Message, e.Category)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Category)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// LogValue projects the error for slog without dumping response bodies.
func (e *APIError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("source", e.Source),
		slog.String("category", string(e.Category)),
		slog.Bool("retriable", e.Retriable),
		slog.String("message", e.Message),
	}
	if e.HTTP != nil {
		attrs = append(attrs, slog.Int("status", e.HTTP.Status))
		if e.HTTP.RetryAfter > 0 {
			attrs = append(attrs, slog.Duration("retry_after", e.HTTP.RetryAfter))
		}
	}
	return slog.GroupValue(attrs...)
}
