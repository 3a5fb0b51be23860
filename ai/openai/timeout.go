package openai

import (
	"context"
	"time"
)

// timeoutFunc wraps a context with the provider's per-call deadline.
type timeoutFunc func(ctx context.Context) (context.Context, context.CancelFunc)

func newTimeoutFunc(d time.Duration) timeoutFunc {
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		if d <= 0 {
			return ctx, func() {}
		}
		return context.WithTimeout(ctx, d)
	}
}
