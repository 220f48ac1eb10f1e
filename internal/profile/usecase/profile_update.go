package usecase

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/samber/lo"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

type ProfileUpdateInput struct {
	// Fields maps snake_case attribute names to decoded request values.
	Fields map[string]any
}

// ProfileUpdate applies a partial update to the caller's profile.
//
// When slack_id or military_status ends up different from what was stored, a
// SlackUpdateTask carrying both current values is written in the same
// transaction and published after commit. A failed publish is left to the
// outbox relay.
func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if len(in.Fields) == 0 {
		return s.Profile(ctx)
	}

	if unknown := lo.Reject(slices.Collect(maps.Keys(in.Fields)), func(name string, _ int) bool {
		return entity.IsAttribute(name)
	}); len(unknown) > 0 {
		fields := make(map[string]string, len(unknown))
		for _, name := range unknown {
			fields[lo.CamelCase(name)] = entity.ErrUnknownAttribute.Error()
		}
		return nil, goerror.NewInvalidFields(fields)
	}

	var task *entity.SlackUpdateTask
	profile, err := s.repoDB.UpdateProfile(ctx, clm.UserID, func(p *entity.Profile) (*entity.SlackUpdateTask, error) {
		before := *p

		fields := make(map[string]string)
		for name, value := range in.Fields {
			if err := p.Apply(name, value); err != nil {
				fields[lo.CamelCase(name)] = err.Error()
			}
		}
		if len(fields) > 0 {
			return nil, goerror.NewInvalidFields(fields)
		}

		if err := s.validator.Validate(p); err != nil {
			return nil, goerror.NewInvalidInput(err)
		}

		now := s.clock.Now()
		p.UpdatedAt = now

		if !p.SlackFieldsChanged(&before) {
			return nil, nil
		}

		task = &entity.SlackUpdateTask{
			ID:             s.uid.Generate(),
			UserID:         p.UserID,
			SlackID:        p.SlackID,
			MilitaryStatus: p.MilitaryStatus,
			CreatedAt:      now,
		}
		return task, nil
	})

	var gerr *goerror.Error
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "profile not found", "user_id", clm.UserID)
		return nil, errProfileNotFound
	case errors.As(err, &gerr):
		return nil, err
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo update profile", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if task != nil {
		slog.InfoContext(ctx, "slack fields changed, queued pybot update", "user_id", clm.UserID, "task_id", task.ID)
		s.publishSlackUpdate(ctx, *task)
	}

	return profile, nil
}

// publishSlackUpdate hands a committed task to the broker and marks it
// published. Errors are logged; the relay retries unpublished tasks.
func (s *Usecase) publishSlackUpdate(ctx context.Context, task entity.SlackUpdateTask) bool {
	if err := s.repoMessaging.PublishProfileSlackUpdate(ctx, task); err != nil {
		slog.WarnContext(ctx, "failed to publish slack update, relay will retry", "task_id", task.ID, "error", err)
		return false
	}

	if err := s.repoDB.MarkSlackUpdateTaskPublished(ctx, task.ID, s.clock.Now()); err != nil {
		slog.WarnContext(ctx, "failed to mark slack update published", "task_id", task.ID, "error", err)
	}
	return true
}
