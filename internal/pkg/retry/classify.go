package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// transportFailures are substrings that identify transient transport-level
// errors when nothing more structured is available.
var transportFailures = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"timed out",
	"no such host",
	"broken pipe",
	"socket hang up",
	"fetch failed",
	"aborted",
	"unexpected EOF",
}

// Classify inspects a failed attempt and assigns it a category. It is pure
// over the error's observable fields; HTTP status, headers and Retry-After
// are snapshotted into the returned metadata because the underlying
// response is gone by the time a caller looks at the error.
func Classify(err error, source string) *APIError {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		meta := &HTTPMetadata{
			Status:     httpErr.Status,
			StatusText: httpErr.StatusText,
			Body:       httpErr.Body,
			Headers:    httpErr.Headers,
			RetryAfter: parseRetryAfter(httpErr.Headers.Get("Retry-After")),
		}
		cat := categoryForStatus(httpErr.Status)
		return &APIError{
			Message:   err.Error(),
			Category:  cat,
			HTTP:      meta,
			Retriable: cat.Retriable(),
			Source:    source,
			Err:       err,
		}
	}

	cat := categoryForTransport(err)
	return &APIError{
		Message:   err.Error(),
		Category:  cat,
		Retriable: cat.Retriable(),
		Source:    source,
		Err:       err,
	}
}

func categoryForStatus(status int) Category {
	switch {
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status >= 500:
		return CategoryServerError
	case status >= 400 && status < 500:
		return CategoryClientError
	}
	return CategoryUnknown
}

func categoryForTransport(err error) Category {
	// Caller gave up; another attempt is pointless.
	if errors.Is(err, context.Canceled) {
		return CategoryUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, needle := range transportFailures {
		if strings.Contains(msg, strings.ToLower(needle)) {
			return CategoryNetwork
		}
	}
	return CategoryUnknown
}

// parseRetryAfter converts a Retry-After header value to a delay. The header
// is either integer seconds or an HTTP-date; anything unparseable yields 0
// and the caller falls back to computed backoff.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		d := time.Until(at)
		if d > 0 {
			return d
		}
	}
	return 0
}
