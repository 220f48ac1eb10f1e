package usecase

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/idempotency"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/entity"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRetryMax      = 3
	defaultRetryBase     = 200 * time.Millisecond
	defaultRetryCap      = 5 * time.Second
	defaultLockDuration  = time.Minute
	defaultCompletionTTL = 24 * time.Hour
)

type repoPybot interface {
	UpdateSlackUser(ctx context.Context, in entity.SlackUpdate) error
}

type idempotencyExecutor interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error
}

type Usecase struct {
	repoPybot repoPybot
	idemp     idempotencyExecutor
	cfg       config.Config
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoPybot   repoPybot
	Idempotency idempotencyExecutor
	Config      config.Config
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoPybot: dep.RepoPybot,
		idemp:     dep.Idempotency,
		cfg:       dep.Config,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("pybot.usecase").Start(ctx, name)
}

// backoff reads modules.pybot.retry.* on every call so config reloads apply
// to the next message.
func (s *Usecase) backoff() retry.Backoff {
	maxRetries := defaultRetryMax
	if n := s.cfg.GetInt("modules.pybot.retry.max_retries"); n > 0 {
		maxRetries = n
	}
	base := defaultRetryBase
	if ms := s.cfg.GetInt("modules.pybot.retry.base_delay_ms"); ms > 0 {
		base = time.Duration(ms) * time.Millisecond
	}
	maxDelay := defaultRetryCap
	if d := s.cfg.GetSecond("modules.pybot.retry.max_delay_seconds"); d > 0 {
		maxDelay = d
	}

	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithCappedDuration(maxDelay, b)
	return retry.WithMaxRetries(uint64(maxRetries), b)
}

func (s *Usecase) idempotencyOptions() []idempotency.Option {
	lock := defaultLockDuration
	if d := s.cfg.GetSecond("modules.pybot.idempotency.lock_seconds"); d > 0 {
		lock = d
	}
	ttl := defaultCompletionTTL
	if d := s.cfg.GetHour("modules.pybot.idempotency.ttl_hours"); d > 0 {
		ttl = d
	}

	return []idempotency.Option{
		idempotency.WithLockDuration(lock),
		idempotency.WithStateTTL(ttl),
		idempotency.WithRetryable(isTransient),
	}
}
