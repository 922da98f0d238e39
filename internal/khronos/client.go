package khronos

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

	"github.com/plutobets/pluto/internal/pkg/retry"
)

const maxErrorBody = 64 << 10

// Client is the configured HTTP client shared by all Khronos service
// wrappers. It owns base URL, auth and identification headers; the wrappers
// own which endpoints get called.
type Client struct {
	baseURL     string
	apiKey      string
	serviceName string
	userAgent   string
	httpClient  *http.Client
	ex          *retry.Executor
	logger      *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	ServiceName string
	UserAgent   string
	Timeout     time.Duration
}

func NewClient(opts Options, ex *retry.Executor, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pluto-bot"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		serviceName: opts.ServiceName,
		userAgent:   opts.UserAgent,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		ex:          ex,
		logger:      logger,
	}
}

// apiFailure ties the HTTP snapshot and the decoded server exception into
// one error chain: retry.Classify sees the status while callers can pull
// out the *ServerException with errors.As.
type apiFailure struct {
	httpErr *retry.HTTPError
	exc     *ServerException
}

func (f *apiFailure) Error() string {
	if f.exc != nil {
		return fmt.Sprintf("khronos: %s: %s", f.exc.Exception, f.exc.Message)
	}
	return "khronos: " + f.httpErr.Error()
}

func (f *apiFailure) Unwrap() []error {
	errs := []error{f.httpErr}
	if f.exc != nil {
		errs = append(errs, f.exc)
	}
	return errs
}

// do performs one request against the API. Non-2xx responses are drained and
// snapshotted so the retry layer can classify them after the body is gone.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("x-service-name", c.serviceName)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		failure := &apiFailure{
			httpErr: &retry.HTTPError{
				Status:     resp.StatusCode,
				StatusText: resp.Status,
				Body:       string(data),
				Headers:    resp.Header.Clone(),
			},
		}
		var exc ServerException
		if json.Unmarshal(data, &exc) == nil && exc.Exception != "" {
			failure.exc = &exc
		}
		c.logger.Debug("khronos request failed", "method", method, "path", path, "status", resp.StatusCode)
		return failure
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
