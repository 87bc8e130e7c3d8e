package async

import (
	"context"

	"github.com/competeai/competeai/pkg/utils/errutil"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in a new goroutine detached from the cancellation of ctx. The logger
// attached to ctx is carried over. Errors and panics are reported through errutil.Handle.
// The returned channel is closed when handler returns.
func Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) <-chan struct{} {
	logger := logging.From(ctx).With("task", task)
	bgCtx := logging.With(context.WithoutCancel(ctx), logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async task", goerr.V("panic", r)), "async task panicked")
			}
		}()

		logger.Info("Async task started")
		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async task failed")
			return
		}
		logger.Info("Async task completed")
	}()

	return done
}
