package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/plutobets/pluto/internal/pkg/retry"
)

const (
	// welcomeSendTimeout bounds one outbound DM attempt; a hung Discord
	// call re-enqueues the job instead of stalling the worker.
	welcomeSendTimeout = 8 * time.Second

	welcomeMaxAttempts = 5
	welcomeQueueSize   = 256
	welcomeIdlePoll    = time.Second
)

// DMSender sends one direct message. Satisfied by the discordgo session
// wrapper; faked in tests.
type DMSender interface {
	SendDM(ctx context.Context, userID, message string) error
}

type welcomeJob struct {
	UserID   string
	Message  string
	Attempts int
}

// WelcomeQueue delivers welcome DMs to new members. Sends are serialized
// through one worker; timeouts and transient failures re-enqueue the job,
// and a platform 429 arms the shared DMLimiter so every queued send waits
// out the bot-wide window.
type WelcomeQueue struct {
	sender  DMSender
	limiter *DMLimiter
	jobs    chan welcomeJob
	logger  *slog.Logger
}

func NewWelcomeQueue(sender DMSender, limiter *DMLimiter, logger *slog.Logger) *WelcomeQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &WelcomeQueue{
		sender:  sender,
		limiter: limiter,
		jobs:    make(chan welcomeJob, welcomeQueueSize),
		logger:  logger,
	}
}

// Enqueue queues a welcome DM. Returns false when the queue is full; a
// dropped welcome message is not worth blocking an event handler for.
func (q *WelcomeQueue) Enqueue(userID, message string) bool {
	select {
	case q.jobs <- welcomeJob{UserID: userID, Message: message}:
		return true
	default:
		q.logger.Warn("welcome queue full, dropping message", "user_id", userID)
		return false
	}
}

// Run processes the queue until ctx is cancelled.
func (q *WelcomeQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *WelcomeQueue) process(ctx context.Context, job welcomeJob) {
	// Re-check after every sleep: the window can be re-armed while we wait.
	for {
		left, blocked := q.limiter.Blocked()
		if !blocked {
			break
		}
		if !sleepOrDone(ctx, left) {
			return
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, welcomeSendTimeout)
	err := q.sender.SendDM(sendCtx, job.UserID, job.Message)
	cancel()
	if err == nil {
		return
	}

	if d, ok := rateLimitWindow(err); ok {
		q.limiter.Block(d)
	}

	job.Attempts++
	if job.Attempts >= welcomeMaxAttempts || !retriableSendError(err) {
		q.logger.Warn("giving up on welcome message", "user_id", job.UserID, "attempts", job.Attempts, "error", err)
		return
	}

	q.logger.Info("re-enqueueing welcome message", "user_id", job.UserID, "attempt", job.Attempts)
	select {
	case q.jobs <- job:
	default:
		q.logger.Warn("welcome queue full, dropping retry", "user_id", job.UserID)
		return
	}
	// Brief pause so a single failing job doesn't spin the worker.
	sleepOrDone(ctx, welcomeIdlePoll)
}

// rateLimitWindow extracts the platform's rate-limit window from an error.
func rateLimitWindow(err error) (time.Duration, bool) {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter, true
	}
	var apiErr *retry.APIError
	if errors.As(err, &apiErr) && apiErr.Category == retry.CategoryRateLimited {
		if apiErr.HTTP != nil && apiErr.HTTP.RetryAfter > 0 {
			return apiErr.HTTP.RetryAfter, true
		}
		return 30 * time.Second, true
	}
	return 0, false
}

func retriableSendError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		// 403 means DMs are closed; retrying cannot help.
		if rest.Response != nil && rest.Response.StatusCode >= 500 {
			return true
		}
		return false
	}
	return retry.Classify(err, "discord.SendDM").Retriable
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
