package khronos

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

func testClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ex := retry.NewExecutor(retry.Config{
		MaxRetries:   maxRetries,
		BaseDelay:    time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		JitterFactor: 0.2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return NewClient(Options{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		ServiceName: "pluto",
	}, ex, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClientSendsIdentificationHeaders(t *testing.T) {
	var got http.Header
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"text":"Pluto","icon_url":""}`))
	}), 0)

	if _, err := NewFooterService(c).Config(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("x-api-key") != "test-key" {
		t.Errorf("x-api-key = %q", got.Get("x-api-key"))
	}
	if got.Get("x-service-name") != "pluto" {
		t.Errorf("x-service-name = %q", got.Get("x-service-name"))
	}
	if got.Get("User-Agent") == "" {
		t.Error("User-Agent not set")
	}
}

func TestClientDecodesServerException(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"exception":"InsufficientBalance","message":"balance too low"}`))
	}), 0)

	_, err := NewBetslipService(c).Initialize(context.Background(), InitRequest{
		UserID: "1", GuildID: "2", Team: "Lakers", Amount: 50,
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var exc *ServerException
	if !errors.As(err, &exc) {
		t.Fatalf("error chain missing *ServerException: %v", err)
	}
	if exc.Exception != "InsufficientBalance" {
		t.Errorf("exception = %q", exc.Exception)
	}

	var apiErr *retry.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error chain missing *retry.APIError: %v", err)
	}
	if apiErr.Category != retry.CategoryClientError {
		t.Errorf("category = %s, want client_error", apiErr.Category)
	}
	if apiErr.HTTP == nil || apiErr.HTTP.Status != 400 {
		t.Errorf("http metadata = %+v", apiErr.HTTP)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"entries":[],"page":0,"total_pages":1}`))
	}), 3)

	page, err := NewLeaderboardService(c).Page(context.Background(), "guild-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if page.TotalPages != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"exception":"MatchNotFound","message":"no such match"}`))
	}), 3)

	_, err := NewMatchService(c).Odds(context.Background(), "m1", "Lakers")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (fail fast on 4xx)", calls)
	}
}

func TestClientRetriesRateLimited(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0") // no usable hint: falls back to computed backoff
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}), 2)

	if _, err := NewPropsService(c).Active(context.Background(), "guild-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (429 is retriable)", calls)
	}
}
