package usecase

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultRelayBatchSize = 100
	defaultRelayMinAge    = 30 * time.Second
)

type RelaySlackUpdatesOutput struct {
	Pending   int
	Published int
}

// RelaySlackUpdates republishes outbox tasks that were committed but never
// reached the broker. Tasks younger than modules.profile.relay.min_age_seconds
// are skipped so the request that created them can publish first.
func (s *Usecase) RelaySlackUpdates(ctx context.Context) (*RelaySlackUpdatesOutput, error) {
	ctx, span := s.startSpan(ctx, "RelaySlackUpdates")
	defer span.End()

	limit := defaultRelayBatchSize
	minAge := s.cfg.GetSecond("modules.profile.relay.min_age_seconds")
	if n := s.cfg.GetInt("modules.profile.relay.batch_size"); n > 0 {
		limit = n
	}
	if minAge <= 0 {
		minAge = defaultRelayMinAge
	}

	tasks, err := s.repoDB.ListPendingSlackUpdateTasks(ctx, s.clock.Now().Add(-minAge), limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list pending slack updates", "error", err)
		return nil, err
	}

	out := &RelaySlackUpdatesOutput{Pending: len(tasks)}
	for _, task := range tasks {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if s.publishSlackUpdate(ctx, task) {
			out.Published++
		}
	}

	if out.Pending > 0 {
		slog.InfoContext(ctx, "relayed pending slack updates", "pending", out.Pending, "published", out.Published)
	}
	return out, nil
}
