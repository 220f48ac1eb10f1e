package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
)

var errProfileNotFound = goerror.NewBusiness("profile not found", goerror.CodeNotFound)

func (s *Usecase) Profile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.repoDB.GetProfile(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "profile not found", "user_id", clm.UserID)
		return nil, errProfileNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get profile", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return profile, nil
}
