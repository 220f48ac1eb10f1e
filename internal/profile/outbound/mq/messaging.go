package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishProfileSlackUpdate sends a task keyed by user ID, so brokers that
// partition (Kafka) keep one user's tasks in order.
func (m *Messaging) PublishProfileSlackUpdate(ctx context.Context, task entity.SlackUpdateTask) error {
	ctx, span := m.ins.Tracer("profile.outbound.mq").Start(ctx, "PublishProfileSlackUpdate")
	defer span.End()

	body, err := json.Marshal(event.ProfileSlackUpdateMessage{
		TaskID:         task.ID,
		UserID:         task.UserID,
		SlackID:        task.SlackID,
		MilitaryStatus: task.MilitaryStatus,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, event.ProfileSlackUpdateDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(task.UserID, 10)),
		Headers: map[string]string{messaging.HeaderCorrelationID: cID},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
