package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/clock"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/jwt"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/validator"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoMessaging interface {
	PublishProfileSlackUpdate(ctx context.Context, task entity.SlackUpdateTask) error
}

type repoDB interface {
	GetProfile(ctx context.Context, userID int64) (*entity.Profile, error)
	CreateProfile(ctx context.Context, p entity.Profile) (created bool, err error)
	UpdateProfile(ctx context.Context, userID int64, mutate entity.ProfileMutator) (*entity.Profile, error)

	ListPendingSlackUpdateTasks(ctx context.Context, createdBefore time.Time, limit int) ([]entity.SlackUpdateTask, error)
	MarkSlackUpdateTaskPublished(ctx context.Context, taskID int64, at time.Time) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("profile.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}
