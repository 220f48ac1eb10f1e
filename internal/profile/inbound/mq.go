package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/uid"
	"github.com/shandysiswandi/opcode-profile/internal/shared/event"
)

// RegisterMQConsumer starts the profile consumers on routine. An empty
// modules.profile.consumer_names runs all of them.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.profile.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka and memory
		pubsubSubscription string // for pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.UserRegistrationConsumerProfile,
			topic:              event.UserRegistrationDestination,
			nsqConsumerName:    event.UserRegistrationConsumerProfile,
			natsConsumerName:   event.UserRegistrationConsumerProfile,
			kafkaConsumerName:  event.UserRegistrationConsumerProfile,
			pubsubSubscription: event.UserRegistrationConsumerProfile,
			handler:            mqHandler.UserRegistration,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && !slices.Contains(enableConsumerNames, consumer.name) {
			continue
		}

		routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithChannel(consumer.nsqConsumerName),
				messaging.WithQueueGroup(consumer.natsConsumerName),
				messaging.WithGroup(consumer.kafkaConsumerName),
				messaging.WithSubscription(consumer.pubsubSubscription),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(10),
				messaging.WithMaxInFlight(10),
			)
		})
	}
}
