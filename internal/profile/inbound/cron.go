package inbound

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
)

const defaultRelaySchedule = "@every 30s"

// RegisterCronJob schedules the outbox relay on routine. The scheduler stops
// when ctx is done and waits for a running relay to return.
func RegisterCronJob(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	uuid uid.StringID,
	uc uc,
) error {
	spec := cfg.GetString("modules.profile.relay.schedule")
	if spec == "" {
		spec = defaultRelaySchedule
	}

	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(spec, func() { relaySlackUpdates(runCtx, uuid, uc) }); err != nil {
		cancel()
		return err
	}

	if err := routine.TryGo(ctx, "profile_slack_update_relay", func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running cron job", "job", "profile_slack_update_relay", "schedule", spec)
		c.Start()
		<-pCtx.Done()
		cancel()
		<-c.Stop().Done()
		return nil
	}); err != nil {
		cancel()
		return err
	}

	return nil
}

func relaySlackUpdates(ctx context.Context, uuid uid.StringID, uc uc) {
	ctx = instrument.SetCorrelationID(ctx, uuid.Generate())
	if _, err := uc.RelaySlackUpdates(ctx); err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "failed to relay slack updates", "error", err)
	}
}
