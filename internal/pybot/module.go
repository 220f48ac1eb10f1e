package pybot

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/idempotency"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/inbound"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/outbound/api"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/usecase"
)

type Dependency struct {
	Ctx        context.Context
	Redis      redis.Cmdable
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Goroutine  *goroutine.Manager

	// Idempotency replaces the Redis backed tracker when set.
	Idempotency idempotencyExecutor
}

type idempotencyExecutor interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error
}

func New(dep Dependency) error {
	idemp := dep.Idempotency
	if idemp == nil {
		idemp = idempotency.New(dep.Redis)
	}

	repoPybot := api.NewPybot(api.Config{
		BaseURL:   dep.Config.GetString("pybot.url"),
		AuthToken: dep.Config.GetString("pybot.auth_token"),
		Timeout:   dep.Config.GetSecond("pybot.timeout_seconds"),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoPybot:   repoPybot,
		Idempotency: idemp,
		Config:      dep.Config,
		Instrument:  dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
