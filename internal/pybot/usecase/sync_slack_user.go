package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/idempotency"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/entity"
)

// ErrTaskInProgress is returned while another worker holds the task, so the
// broker redelivers it later.
var ErrTaskInProgress = errors.New("slack update task in progress")

type SyncSlackUserInput struct {
	TaskID         int64
	UserID         int64
	SlackID        string
	MilitaryStatus string
}

// SyncSlackUser pushes one task to pybot at most once per task ID.
//
// Transient pybot failures are retried in place. If they persist the error is
// returned and the key released so a redelivery can try again. Rejections
// are logged and swallowed since replaying the same payload cannot succeed.
func (s *Usecase) SyncSlackUser(ctx context.Context, in SyncSlackUserInput) error {
	ctx, span := s.startSpan(ctx, "SyncSlackUser")
	defer span.End()

	if in.TaskID <= 0 {
		slog.WarnContext(ctx, "skip slack update without task id", "user_id", in.UserID)
		return nil
	}

	payload := entity.SlackUpdate{
		TaskID:         in.TaskID,
		UserID:         in.UserID,
		SlackID:        in.SlackID,
		MilitaryStatus: in.MilitaryStatus,
	}

	key := "pybot:slack_update:" + strconv.FormatInt(in.TaskID, 10)
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
			err := s.repoPybot.UpdateSlackUser(ctx, payload)
			if isTransient(err) {
				slog.WarnContext(ctx, "pybot slack update failed, retrying", "task_id", in.TaskID, "error", err)
				return retry.RetryableError(err)
			}
			return err
		})
	}, s.idempotencyOptions()...)

	switch {
	case err == nil:
		slog.InfoContext(ctx, "pybot slack update sent", "task_id", in.TaskID, "user_id", in.UserID)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "skip slack update already handled", "task_id", in.TaskID, "reason", err)
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "slack update held by another worker", "task_id", in.TaskID)
		return ErrTaskInProgress
	case errors.Is(err, entity.ErrPybotRejected):
		slog.ErrorContext(ctx, "pybot rejected slack update, dropping", "task_id", in.TaskID, "error", err)
		return nil
	default:
		slog.ErrorContext(ctx, "failed to sync slack user", "task_id", in.TaskID, "error", err)
		return err
	}
}

// isTransient reports errors a later delivery may not hit. A canceled or
// expired context counts, since it ends the retry loop on shutdown and the
// key must be released for the redelivery.
func isTransient(err error) bool {
	return errors.Is(err, entity.ErrPybotUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
