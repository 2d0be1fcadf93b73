package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roti/internal/repositories"
)

// storeAttempts bounds how often a store call is tried when it fails with a
// transient error.
const storeAttempts = 2

// withRetry runs op under a per-attempt timeout and retries it once when the
// store reports a transient failure.
func withRetry[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt < storeAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err = op(callCtx)
		cancel()
		if err == nil || !errors.Is(err, repositories.ErrTransient) {
			return result, err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return result, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// execWithRetry is withRetry for operations without a result.
func execWithRetry(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	_, err := withRetry(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
