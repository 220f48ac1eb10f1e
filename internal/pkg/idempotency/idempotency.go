// Package idempotency guards side effects behind a Redis key so an operation
// identified by the same key runs at most once to completion.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress is returned when another worker holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrAlreadyCompleted is returned when the operation finished before.
	ErrAlreadyCompleted = errors.New("operation already completed")
	// ErrAlreadyFailed is returned when the operation failed permanently before.
	ErrAlreadyFailed = errors.New("operation already failed")
	// ErrInvalidState is returned when the stored value is not a known State.
	ErrInvalidState = errors.New("invalid state")
)

// State is the value stored under an idempotency key.
type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
	StateFailed     State = "failed"      // previously operation failed
	StateError      State = "error"       // this operation error
)

func (s State) String() string {
	return string(s)
}

// Idempotency tracks operation state by key.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// StateTracker implements Idempotency on Redis.
type StateTracker struct {
	client redis.Cmdable
	prefix string
}

// New returns a StateTracker storing keys under "idempotency:".
func New(client redis.Cmdable) *StateTracker {
	return &StateTracker{
		client: client,
		prefix: "idempotency:",
	}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option customizes Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
	retryable    func(error) bool
}

// WithLockDuration sets how long the in-progress marker lives.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long the completed/failed marker lives.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

// WithRetryable makes Exec release the key, instead of marking it failed,
// when fn returns an error for which isRetryable reports true. A later call
// with the same key may then run fn again.
func WithRetryable(isRetryable func(error) bool) Option {
	return func(o *execOptions) {
		o.retryable = isRetryable
	}
}

// Acquire tries to start an operation.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	for range 2 {
		acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}

		result, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return StateError, err
		}

		switch State(result) {
		case StateInProgress, StateCompleted, StateFailed:
			return State(result), nil
		default:
			return StateError, ErrInvalidState
		}
	}

	return StateError, ErrInvalidState
}

// MarkCompleted records a successful run.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// MarkFailed records a permanent failure.
func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateFailed.String(), ttl).Err()
}

// Release forgets the key so the operation can be attempted again.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn once per key. It returns ErrAlreadyInProgress,
// ErrAlreadyCompleted or ErrAlreadyFailed without calling fn when the key is
// already held, otherwise fn's error.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		// ctx may already be canceled; the bookkeeping must still land.
		bctx := context.WithoutCancel(ctx)
		if execOpt.retryable != nil && execOpt.retryable(err) {
			return errors.Join(err, s.Release(bctx, key))
		}
		return errors.Join(err, s.MarkFailed(bctx, key, execOpt.stateTTL))
	}

	return s.MarkCompleted(context.WithoutCancel(ctx), key, execOpt.stateTTL)
}
