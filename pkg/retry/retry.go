package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Config defines retry parameters.
type Config struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          float64 // 0-1, fraction of jitter to add
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		Jitter:          0.1,
	}
}

type Operation func() error

// PermanentError marks errors that must not be retried.
type PermanentError interface {
	IsRetryable() bool
}

// Do executes operation with bounded exponential backoff.
func Do(ctx context.Context, config Config, operation Operation) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if perm, ok := err.(PermanentError); ok && !perm.IsRetryable() {
			return err
		}

		if attempt < config.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(attempt, config)):
			}
		}
	}

	return lastErr
}

func backoff(attempt int, config Config) time.Duration {
	d := float64(config.InitialInterval) * math.Pow(config.Multiplier, float64(attempt))

	if d > float64(config.MaxInterval) {
		d = float64(config.MaxInterval)
	}

	if config.Jitter > 0 {
		jitterRange := d * config.Jitter
		d += (rand.Float64() * 2 * jitterRange) - jitterRange
	}

	return time.Duration(d)
}
