package common

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

type IsRecoverableErrorFn func(err error) bool

// RetryConfig describes an exponential backoff: BaseDelay doubles on every retry and is capped at MaxDelay
type RetryConfig struct {
	MaxRetries uint64        `json:"maxRetries"`
	BaseDelay  time.Duration `json:"baseDelay"`
	MaxDelay   time.Duration `json:"maxDelay"`
}

const minRetryBaseDelay = time.Millisecond

func (c RetryConfig) backoff() retry.Backoff {
	b := retry.NewExponential(max(c.BaseDelay, minRetryBaseDelay))
	if c.MaxDelay > 0 {
		b = retry.WithCappedDuration(c.MaxDelay, b)
	}

	return retry.WithMaxRetries(c.MaxRetries, b)
}

// ExecuteWithRetry executes fn and retries it while isRecoverableError reports the returned error as transient.
// Errors that are not recoverable are returned immediately. Without a predicate nothing is retried.
func ExecuteWithRetry[T any](
	ctx context.Context, config RetryConfig,
	fn func(ctx context.Context) (T, error),
	isRecoverableError IsRecoverableErrorFn,
) (T, error) {
	var result T

	err := retry.Do(ctx, config.backoff(), func(ctx context.Context) error {
		res, err := fn(ctx)
		if err != nil {
			if isRecoverableError != nil && isRecoverableError(err) {
				return retry.RetryableError(err)
			}

			return err
		}

		result = res

		return nil
	})

	return result, err
}

// RetryForever executes fn with a constant wait time between attempts until it succeeds or ctx is done
func RetryForever(ctx context.Context, waitTime time.Duration, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, retry.NewConstant(waitTime), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}
