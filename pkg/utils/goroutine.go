package utils

import (
	"context"
	"fmt"
	"runtime/debug"

	"ai-crypto-assistant/pkg/logger"
)

// GoSafe runs fn in a new goroutine and keeps a panic from crashing the process.
// A recovered panic is logged with the request id carried by ctx.
func GoSafe(ctx context.Context, log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(ctx, "Recovered panic in goroutine",
					logger.StringField("panic", fmt.Sprintf("%v", r)),
					logger.StringField("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}

// SafeCall runs fn and turns a panic into an error.
func SafeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// ShouldContinue reports whether work may go on, logging when ctx is already done.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.WarnContext(ctx, "Context done, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
