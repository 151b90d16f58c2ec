package async

import (
	"context"

	"github.com/labops/labaudit/pkg/utils/errutil"
	"github.com/labops/labaudit/pkg/utils/logging"
)

// Dispatch runs the handler in a background goroutine detached from the
// caller's cancellation, preserving the caller's logger. Panics are recovered
// and logged; errors go through errutil so they reach Sentry when configured.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
