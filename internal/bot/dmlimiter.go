package bot

import (
	"sync"
	"time"
)

// DMLimiter is the single global valve for outbound DMs. Discord's DM rate
// limit is per-bot, not per-user, so one 429 must pause every queued send
// until the window passes.
type DMLimiter struct {
	mu    sync.Mutex
	until time.Time
	now   func() time.Time
}

func NewDMLimiter() *DMLimiter {
	return &DMLimiter{now: time.Now}
}

// Block pauses all sends for d from now. A shorter new window never trims
// an already armed longer one.
func (l *DMLimiter) Block(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	deadline := l.now().Add(d)
	if deadline.After(l.until) {
		l.until = deadline
	}
}

// Blocked returns the remaining pause, if any.
func (l *DMLimiter) Blocked() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	left := l.until.Sub(l.now())
	if left <= 0 {
		return 0, false
	}
	return left, true
}
