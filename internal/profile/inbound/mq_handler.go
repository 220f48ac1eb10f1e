package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
	"github.com/shandysiswandi/opcode-profile/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(messaging.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) UserRegistration(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("profile.inbound.mq").Start(ctx, "UserRegistration")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registration", "msg_body", string(body))

	var payload event.UserRegistrationMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registration", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserRegistration(ctx, usecase.ConsumeUserRegistrationInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user registration", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
