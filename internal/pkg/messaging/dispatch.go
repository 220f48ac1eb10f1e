package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// responder makes Ack/Nack idempotent across the handler and auto-ack.
type responder struct {
	done atomic.Bool
}

// claim reports whether the caller is the first to respond.
func (r *responder) claim() bool {
	return !r.done.Swap(true)
}

func (r *responder) responded() bool {
	return r.done.Load()
}

type respondingMessage interface {
	Message
	responded() bool
}

// dispatch runs handler with panic recovery and applies auto-ack.
func dispatch(ctx context.Context, kind string, handler Handler, msg respondingMessage, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, msg)
	})

	if !autoAck || msg.responded() {
		return herr
	}

	if herr != nil {
		slog.WarnContext(ctx, "message handler failed, requesting redelivery",
			"kind", kind, "destination", msg.Destination(), "id", msg.ID(), "attempts", msg.Attempts(), "error", herr)
		return msg.Nack(ctx)
	}
	return msg.Ack(ctx)
}

func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
		}
	}()

	return fn()
}
