// Package goroutine runs named background tasks under a shared concurrency
// limit and collects their errors on shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrLimitReached is returned by TryGo when no slot is free.
var ErrLimitReached = errors.New("goroutine: maximum goroutine limit reached")

// ErrClosed is returned by TryGo after Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// Manager runs functions in goroutines with a configurable concurrency limit.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f under name. When the manager is closed or full the task is
// dropped with a warning.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) {
	if err := g.TryGo(ctx, name, f); err != nil {
		slog.WarnContext(ctx, "goroutine not started", "name", name, "error", err)
	}
}

// TryGo is Go that reports why a task could not be scheduled.
func (g *Manager) TryGo(ctx context.Context, name string, f func(ctx context.Context) error) error {
	if g == nil {
		return ErrClosed
	}

	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		return ErrLimitReached
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "name", name, "panic", rvr, "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "name", name, "panic", rvr, "stack", string(stack))
				}
				g.collect(fmt.Errorf("%s: panic: %v", name, rvr))
			}
		}()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "name", name, "because", ctx.Err())
			return
		}

		if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
			g.collect(fmt.Errorf("%s: %w", name, err))
		}
	})

	return nil
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait closes the manager, blocks until all scheduled goroutines finish and
// returns any collected errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
