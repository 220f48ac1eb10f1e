package inbound

import (
	"context"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
)

type uc interface {
	Profile(ctx context.Context) (*entity.Profile, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*entity.Profile, error)

	ConsumeUserRegistration(ctx context.Context, in usecase.ConsumeUserRegistrationInput) error
	RelaySlackUpdates(ctx context.Context) (*usecase.RelaySlackUpdatesOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// update_profile (need authenticated)
	r.GET("/api/v1/auth/profile", end.Profile)
	r.PATCH("/api/v1/auth/profile", end.ProfileUpdate)
}
