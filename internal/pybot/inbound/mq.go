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
	"github.com/shandysiswandi/opcode-profile/internal/pybot/usecase"
	"github.com/shandysiswandi/opcode-profile/internal/shared/event"
)

type uc interface {
	SyncSlackUser(ctx context.Context, in usecase.SyncSlackUserInput) error
}

// RegisterMQConsumer starts the pybot consumers on routine. An empty
// modules.pybot.consumer_names runs all of them.
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

	enableConsumerNames := cfg.GetArray("modules.pybot.consumer_names")
	concurrency := cfg.GetInt("modules.pybot.concurrency")
	if concurrency <= 0 {
		concurrency = 10
	}

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
			name:               event.ProfileSlackUpdateConsumerPybot,
			topic:              event.ProfileSlackUpdateDestination,
			nsqConsumerName:    event.ProfileSlackUpdateConsumerPybot,
			natsConsumerName:   event.ProfileSlackUpdateConsumerPybot,
			kafkaConsumerName:  event.ProfileSlackUpdateConsumerPybot,
			pubsubSubscription: event.ProfileSlackUpdateConsumerPybot,
			handler:            mqHandler.ProfileSlackUpdate,
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
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
	}
}
