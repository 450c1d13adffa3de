package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecuteWithRetry(t *testing.T) {
	errTransient := errors.New("transient")
	errPermanent := errors.New("permanent")
	config := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
	isTransient := func(err error) bool { return errors.Is(err, errTransient) }

	t.Run("success after transient failures", func(t *testing.T) {
		attempts := 0

		res, err := ExecuteWithRetry(context.Background(), config, func(context.Context) (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errTransient
			}

			return 42, nil
		}, isTransient)

		require.NoError(t, err)
		require.Equal(t, 42, res)
		require.Equal(t, 3, attempts)
	})

	t.Run("transient failures exhaust the retries", func(t *testing.T) {
		attempts := 0

		_, err := ExecuteWithRetry(context.Background(), config, func(context.Context) (int, error) {
			attempts++

			return 0, errTransient
		}, isTransient)

		require.ErrorIs(t, err, errTransient)
		require.Equal(t, 4, attempts)
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		attempts := 0

		_, err := ExecuteWithRetry(context.Background(), config, func(context.Context) (int, error) {
			attempts++

			return 0, errPermanent
		}, isTransient)

		require.ErrorIs(t, err, errPermanent)
		require.Equal(t, 1, attempts)
	})

	t.Run("no predicate means no retry", func(t *testing.T) {
		attempts := 0

		_, err := ExecuteWithRetry(context.Background(), config, func(context.Context) (int, error) {
			attempts++

			return 0, errTransient
		}, nil)

		require.ErrorIs(t, err, errTransient)
		require.Equal(t, 1, attempts)
	})

	t.Run("context canceled stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slowConfig := RetryConfig{MaxRetries: 10, BaseDelay: time.Hour}
		attempts := 0

		_, err := ExecuteWithRetry(ctx, slowConfig, func(context.Context) (int, error) {
			attempts++
			cancel()

			return 0, errTransient
		}, isTransient)

		require.Error(t, err)
		require.Equal(t, 1, attempts)
	})
}

func TestRetryForever(t *testing.T) {
	attempts := 0

	err := RetryForever(context.Background(), time.Millisecond, func(context.Context) error {
		attempts++
		if attempts < 5 {
			return errors.New("not yet")
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 5, attempts)
}
