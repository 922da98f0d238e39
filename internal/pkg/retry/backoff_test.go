package retry

import (
	"testing"
	"time"
)

func TestBackoffExponentialGrowth(t *testing.T) {
	cfg := Config{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, JitterFactor: 0.2}
	noJitter := func() float64 { return 0 }

	var prev time.Duration
	for attempt := 0; attempt < 6; attempt++ {
		d := backoff(attempt, cfg, 0, noJitter)
		if d < prev {
			t.Errorf("attempt %d: delay %v < previous %v", attempt, d, prev)
		}
		if d > cfg.MaxDelay {
			t.Errorf("attempt %d: delay %v exceeds max %v", attempt, d, cfg.MaxDelay)
		}
		prev = d
	}

	if d := backoff(2, cfg, 0, noJitter); d != 400*time.Millisecond {
		t.Errorf("attempt 2 without jitter = %v, want 400ms", d)
	}
}

func TestBackoffCappedAtMax(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 5 * time.Second, JitterFactor: 0.2}
	fullJitter := func() float64 { return 1 }

	for attempt := 0; attempt < 64; attempt++ {
		d := backoff(attempt, cfg, 0, fullJitter)
		if d > cfg.MaxDelay {
			t.Fatalf("attempt %d: delay %v exceeds max %v", attempt, d, cfg.MaxDelay)
		}
		if d < 0 {
			t.Fatalf("attempt %d: negative delay %v", attempt, d)
		}
	}
}

func TestBackoffRetryAfterPrecedence(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second, JitterFactor: 0.2}

	for _, attempt := range []int{0, 1, 5} {
		if d := Backoff(attempt, cfg, 7*time.Second); d != 7*time.Second {
			t.Errorf("attempt %d: hint ignored, got %v", attempt, d)
		}
	}

	// Hint above the cap is clamped, not honored verbatim.
	if d := Backoff(0, cfg, time.Hour); d != cfg.MaxDelay {
		t.Errorf("oversized hint = %v, want %v", d, cfg.MaxDelay)
	}
}

func TestBackoffNegativeAttemptClamped(t *testing.T) {
	cfg := DefaultConfig()
	noJitter := func() float64 { return 0 }
	if d := backoff(-3, cfg, 0, noJitter); d != cfg.BaseDelay {
		t.Errorf("negative attempt = %v, want base delay %v", d, cfg.BaseDelay)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	def := DefaultConfig()
	if cfg.MaxRetries != 0 {
		// MaxRetries 0 is a valid explicit choice (single attempt).
		t.Errorf("MaxRetries = %d, want 0 preserved", cfg.MaxRetries)
	}
	if cfg.BaseDelay != def.BaseDelay || cfg.MaxDelay != def.MaxDelay || cfg.JitterFactor != def.JitterFactor {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
