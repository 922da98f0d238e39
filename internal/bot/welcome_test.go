package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

var (
	http403 = http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"}
	http502 = http.Response{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
)

type fakeSender struct {
	mu    sync.Mutex
	calls []string
	errs  []error // consumed in order; nil entries mean success
}

func (f *fakeSender) SendDM(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testQueue(sender DMSender) (*WelcomeQueue, *DMLimiter) {
	limiter := NewDMLimiter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWelcomeQueue(sender, limiter, logger), limiter
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWelcomeQueueDelivers(t *testing.T) {
	sender := &fakeSender{}
	q, _ := testQueue(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Enqueue("user-1", "welcome!")
	q.Enqueue("user-2", "welcome!")

	waitFor(t, func() bool { return len(sender.sent()) == 2 })
}

func TestWelcomeQueueArmsLimiterOn429(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{
			TooManyRequests: &discordgo.TooManyRequests{RetryAfter: time.Minute},
		}},
	}}
	q, limiter := testQueue(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Enqueue("user-1", "welcome!")
	waitFor(t, func() bool {
		_, blocked := limiter.Blocked()
		return blocked
	})

	left, _ := limiter.Blocked()
	if left <= 0 || left > time.Minute {
		t.Errorf("limiter window = %v, want in (0, 1m]", left)
	}
}

func TestWelcomeQueueWaitsOutReArmedWindow(t *testing.T) {
	sender := &fakeSender{}
	q, limiter := testQueue(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	limiter.Block(50 * time.Millisecond)
	go q.Run(ctx)
	q.Enqueue("user-1", "welcome!")

	// Extend the window while the worker is sleeping out the first one.
	time.Sleep(20 * time.Millisecond)
	limiter.Block(300 * time.Millisecond)

	waitFor(t, func() bool { return len(sender.sent()) == 1 })
	if elapsed := time.Since(start); elapsed < 250*time.Millisecond {
		t.Errorf("DM sent after %v, want the extended window waited out", elapsed)
	}
}

func TestWelcomeQueueDropsNonRetriableFailures(t *testing.T) {
	closedDMs := &discordgo.RESTError{Response: &http403}
	sender := &fakeSender{errs: []error{closedDMs}}
	q, _ := testQueue(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	q.Enqueue("user-1", "welcome!")
	q.Enqueue("user-2", "welcome!")

	// user-1 fails terminally once and is not retried; user-2 still goes out.
	waitFor(t, func() bool {
		sent := sender.sent()
		return len(sent) == 2 && sent[1] == "user-2"
	})
}

func TestRetriableSendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"network", errors.New("connection reset by peer"), true},
		{"rate limit", &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{TooManyRequests: &discordgo.TooManyRequests{RetryAfter: time.Second}}}, true},
		{"forbidden", &discordgo.RESTError{Response: &http403}, false},
		{"server error", &discordgo.RESTError{Response: &http502}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retriableSendError(tt.err); got != tt.want {
				t.Errorf("retriableSendError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
