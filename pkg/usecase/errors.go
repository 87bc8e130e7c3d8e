package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for use case layer
var (
	// Client errors
	ErrInvalidInput = errors.New("invalid input")

	// Server misconfiguration, detected before any provider call
	ErrProviderNotConfigured = errors.New("provider is not configured")

	// Upstream errors
	ErrProviderCallFailed = errors.New("provider call failed")
	ErrStoreUnavailable   = errors.New("embedding store unavailable")
	ErrUpstreamTimeout    = errors.New("upstream timed out")

	// Batch errors
	ErrItemProcessingFailed = errors.New("item processing failed")
)

// Context keys for error values
const (
	ContentTypeKey = "content_type"
	ContentIDKey   = "content_id"
	QueryKey       = "query"
)

// classify tags err with kind unless it is already a timeout. Deadline errors become ErrUpstreamTimeout.
func classify(err error, kind error) error {
	if errors.Is(err, ErrUpstreamTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// callWithTimeout runs fn under its own deadline. A zero timeout means no deadline.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(tctx)
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return v, fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return v, err
}
