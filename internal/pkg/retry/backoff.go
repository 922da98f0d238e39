package retry

import (
	"math/rand"
	"time"
)

// Config bounds one retry sequence. Unset fields fall back to defaults;
// MaxRetries=0 is honored as "single attempt" and only negative values
// take the default.
type Config struct {
	MaxRetries   int           `yaml:"max_retries"`
	BaseDelay    time.Duration `yaml:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	JitterFactor float64       `yaml:"jitter_factor"`
}

// DefaultConfig returns the knobs used when a caller passes none.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.JitterFactor <= 0 {
		c.JitterFactor = def.JitterFactor
	}
	return c
}

// Backoff computes the delay before the next attempt (attempt is 0-indexed).
// An explicit server hint always wins over computed backoff, capped at
// MaxDelay. Otherwise the delay grows exponentially with additive jitter.
func Backoff(attempt int, cfg Config, hint time.Duration) time.Duration {
	return backoff(attempt, cfg, hint, rand.Float64)
}

func backoff(attempt int, cfg Config, hint time.Duration, rnd func() float64) time.Duration {
	cfg = cfg.withDefaults()

	if hint > 0 {
		if hint > cfg.MaxDelay {
			return cfg.MaxDelay
		}
		return hint
	}

	if attempt < 0 {
		attempt = 0
	}
	exp := cfg.BaseDelay
	for i := 0; i < attempt; i++ {
		exp *= 2
		if exp >= cfg.MaxDelay || exp <= 0 { // <= 0 catches overflow
			return cfg.MaxDelay
		}
	}

	jitter := time.Duration(float64(exp) * cfg.JitterFactor * rnd())
	delay := exp + jitter
	if delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return delay
}
