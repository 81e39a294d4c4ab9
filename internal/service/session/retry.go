package session

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
)

// withRetry runs fn, retrying transient store failures (serialization
// conflicts, deadlocks, lock timeouts) with bounded exponential backoff.
// Domain errors and permanent store errors fail immediately.
func (s *Service) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(s.cfg.RetryBase),
				backoff.WithMaxInterval(5*time.Second),
			),
			uint64(s.cfg.RetryAttempts),
		),
		ctx,
	)

	return backoff.Retry(func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if postgres.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
