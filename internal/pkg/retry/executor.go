package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Executor drives bounded retry loops around outbound calls. One executor is
// shared by all service wrappers; each call is independent and no
// rate-limiter state carries across calls.
type Executor struct {
	cfg    Config
	logger *slog.Logger

	// Injected for deterministic tests.
	sleep func(ctx context.Context, d time.Duration) error
	rnd   func() float64
}

// NewExecutor creates an executor with the given default config. A nil
// logger falls back to slog.Default.
func NewExecutor(cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		cfg:    cfg.withDefaults(),
		logger: logger,
		sleep:  sleepCtx,
		rnd:    rand.Float64,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs fn until it succeeds, fails terminally, or attempts are exhausted.
// MaxRetries=3 allows up to 4 total attempts. Non-retriable failures are
// returned immediately with no delay. Retriable ones wait for the computed
// backoff (honoring any Retry-After the server sent) before the next
// attempt; the wait aborts when ctx does. The returned error is always a
// classified *APIError. Callers own fn's idempotency across attempts.
func Do[T any](ctx context.Context, ex *Executor, source string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	cfg := ex.cfg

	var last *APIError
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}

		last = Classify(err, source)
		if !last.Retriable || attempt == cfg.MaxRetries {
			break
		}

		var hint time.Duration
		if last.HTTP != nil {
			hint = last.HTTP.RetryAfter
		}
		delay := backoff(attempt, cfg, hint, ex.rnd)
		ex.logger.Warn("retrying failed call",
			"source", source,
			"attempt", attempt+1,
			"category", string(last.Category),
			"delay", delay,
		)
		if err := ex.sleep(ctx, delay); err != nil {
			return zero, Classify(err, source)
		}
	}
	return zero, last
}

// DoErr is Do for operations with no return value.
func DoErr(ctx context.Context, ex *Executor, source string, fn func(context.Context) error) error {
	_, err := Do(ctx, ex, source, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
