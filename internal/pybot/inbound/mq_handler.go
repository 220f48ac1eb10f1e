package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/pybot/usecase"
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

func (h *MQHandler) ProfileSlackUpdate(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("pybot.inbound.mq").Start(ctx, "ProfileSlackUpdate")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: profile slack update", "msg_body", string(body), "attempts", msg.Attempts())

	var payload event.ProfileSlackUpdateMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of profile slack update", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.SyncSlackUser(ctx, usecase.SyncSlackUserInput{
		TaskID:         payload.TaskID,
		UserID:         payload.UserID,
		SlackID:        payload.SlackID,
		MilitaryStatus: payload.MilitaryStatus,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume profile slack update", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
