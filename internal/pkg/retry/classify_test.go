package retry

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func httpError(status int, headers http.Header) *HTTPError {
	if headers == nil {
		headers = http.Header{}
	}
	return &HTTPError{
		Status:     status,
		StatusText: http.StatusText(status),
		Headers:    headers,
	}
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status    int
		category  Category
		retriable bool
	}{
		{400, CategoryClientError, false},
		{401, CategoryClientError, false},
		{403, CategoryClientError, false},
		{404, CategoryClientError, false},
		{409, CategoryClientError, false},
		{422, CategoryClientError, false},
		{429, CategoryRateLimited, true},
		{499, CategoryClientError, false},
		{500, CategoryServerError, true},
		{502, CategoryServerError, true},
		{503, CategoryServerError, true},
		{599, CategoryServerError, true},
	}

	for _, tt := range tests {
		apiErr := Classify(httpError(tt.status, nil), "test")
		if apiErr.Category != tt.category {
			t.Errorf("status %d: category = %s, want %s", tt.status, apiErr.Category, tt.category)
		}
		if apiErr.Retriable != tt.retriable {
			t.Errorf("status %d: retriable = %v, want %v", tt.status, apiErr.Retriable, tt.retriable)
		}
		if apiErr.HTTP == nil {
			t.Errorf("status %d: expected HTTP metadata", tt.status)
		} else if apiErr.HTTP.Status != tt.status {
			t.Errorf("status %d: metadata status = %d", tt.status, apiErr.HTTP.Status)
		}
	}
}

func TestClassifyRateLimitedWithRetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "2")

	apiErr := Classify(httpError(429, h), "test")
	if apiErr.Category != CategoryRateLimited {
		t.Errorf("category = %s, want %s", apiErr.Category, CategoryRateLimited)
	}
	if apiErr.HTTP.RetryAfter != 2*time.Second {
		t.Errorf("RetryAfter = %v, want 2s", apiErr.HTTP.RetryAfter)
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category Category
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), CategoryNetwork},
		{"connection reset", errors.New("read tcp: connection reset by peer"), CategoryNetwork},
		{"dns failure", errors.New("dial tcp: lookup api.example.invalid: no such host"), CategoryNetwork},
		{"timeout", errors.New("net/http: request canceled (Client.Timeout exceeded)... timeout"), CategoryNetwork},
		{"broken pipe", errors.New("write: broken pipe"), CategoryNetwork},
		{"socket hang up", errors.New("socket hang up"), CategoryNetwork},
		{"fetch failed", errors.New("fetch failed"), CategoryNetwork},
		{"aborted", errors.New("request aborted"), CategoryNetwork},
		{"plain error", errors.New("something else entirely"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := Classify(tt.err, "test")
			if apiErr.Category != tt.category {
				t.Errorf("category = %s, want %s", apiErr.Category, tt.category)
			}
			if apiErr.HTTP != nil {
				t.Error("transport errors must not carry HTTP metadata")
			}
			if apiErr.Retriable != tt.category.Retriable() {
				t.Errorf("retriable = %v, want %v", apiErr.Retriable, tt.category.Retriable())
			}
		})
	}
}

func TestClassifyWrappedHTTPError(t *testing.T) {
	err := fmt.Errorf("fetch leaderboard: %w", httpError(503, nil))
	apiErr := Classify(err, "leaderboard.Fetch")
	if apiErr.Category != CategoryServerError {
		t.Errorf("category = %s, want %s", apiErr.Category, CategoryServerError)
	}
	if apiErr.Source != "leaderboard.Fetch" {
		t.Errorf("source = %q", apiErr.Source)
	}
}

func TestClassifyNil(t *testing.T) {
	if apiErr := Classify(nil, "test"); apiErr != nil {
		t.Errorf("Classify(nil) = %v, want nil", apiErr)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"seconds", "2", 2 * time.Second},
		{"zero", "0", 0},
		{"negative", "-5", 0},
		{"garbage", "soon", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.value); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	at := time.Now().Add(10 * time.Second).UTC()
	got := parseRetryAfter(at.Format(http.TimeFormat))
	if got <= 0 || got > 10*time.Second {
		t.Errorf("parseRetryAfter(http-date) = %v, want in (0, 10s]", got)
	}

	past := time.Now().Add(-time.Minute).UTC()
	if got := parseRetryAfter(past.Format(http.TimeFormat)); got != 0 {
		t.Errorf("past http-date should yield 0, got %v", got)
	}
}
