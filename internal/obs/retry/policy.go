package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// EventPublishPolicy makes three quick attempts and never retries a cancelled context.
func EventPublishPolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "event_publish",
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("event publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("event publish retries exhausted", zap.Error(err))
			}
		},
	}
}
