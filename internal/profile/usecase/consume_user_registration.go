package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

type ConsumeUserRegistrationInput struct {
	UserID   int64
	Email    string
	FullName string
}

// ConsumeUserRegistration creates an empty profile for a new user. Replays
// of the same event are no-ops.
func (s *Usecase) ConsumeUserRegistration(ctx context.Context, in ConsumeUserRegistrationInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistration")
	defer span.End()

	if in.UserID <= 0 {
		slog.WarnContext(ctx, "skip user registration without user id", "email", in.Email)
		return nil
	}

	now := s.clock.Now()
	created, err := s.repoDB.CreateProfile(ctx, entity.Profile{
		UserID:    in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create profile", "user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if created {
		slog.InfoContext(ctx, "profile created for registered user", "user_id", in.UserID)
	} else {
		slog.InfoContext(ctx, "profile already exists for registered user", "user_id", in.UserID)
	}
	return nil
}
