package profile

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/clock"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/validator"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/profile/inbound"
	"github.com/shandysiswandi/opcode-profile/internal/profile/outbound/db"
	"github.com/shandysiswandi/opcode-profile/internal/profile/outbound/mq"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
}

func New(dep Dependency) error {
	return newModule(dep, db.NewDB(dep.DBConn, dep.Instrument))
}

type repoDB interface {
	GetProfile(ctx context.Context, userID int64) (*entity.Profile, error)
	CreateProfile(ctx context.Context, p entity.Profile) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, mutate entity.ProfileMutator) (*entity.Profile, error)
	ListPendingSlackUpdateTasks(ctx context.Context, createdBefore time.Time, limit int) ([]entity.SlackUpdateTask, error)
	MarkSlackUpdateTaskPublished(ctx context.Context, taskID int64, at time.Time) error
}

func newModule(dep Dependency, repo repoDB) error {
	uc := usecase.New(usecase.Dependency{
		RepoDB:        repo,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
		if err := inbound.RegisterCronJob(dep.Ctx, dep.Config, dep.Goroutine, dep.UUID, uc); err != nil {
			return err
		}
	}

	return nil
}
