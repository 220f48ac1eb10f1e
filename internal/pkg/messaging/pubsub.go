package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

var (
	// ErrPubSubProjectIDRequired is returned when neither a client nor a project ID is given.
	ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")
	// ErrPubSubSubscriptionRequired is returned when Consume cannot resolve a subscription.
	ErrPubSubSubscriptionRequired = errors.New("messaging: pubsub subscription is required")
)

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	ProjectID string

	// Client is used as-is when set; ProjectID and ClientOptions are ignored.
	Client        *pubsub.Client
	ClientOptions []option.ClientOption
}

// PubSub is a messaging implementation backed by Google Pub/Sub.
//
// Topics and subscriptions are provisioned outside the service. Consume reads
// from the subscription named by WithSubscription, or by the consumer group
// when no subscription is set.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

// NewPubSub constructs a PubSub messaging client.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.Client != nil {
		return &PubSub{client: cfg.Client, publishers: map[string]*pubsub.Publisher{}}, nil
	}
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close flushes publishers and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := make([]*pubsub.Publisher, 0, len(p.publishers))
	for _, pub := range p.publishers {
		pubs = append(pubs, pub)
	}
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}

	return p.client.Close()
}

// Publish sends a message to a topic and waits for the server ID. Headers are
// sent as message attributes.
func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	if msg.Delay > 0 {
		return ErrUnsupported
	}

	pub, err := p.publisher(destination)
	if err != nil {
		return err
	}

	res := pub.Publish(ctx, &pubsub.Message{
		Data:       msg.Body,
		Attributes: msg.Headers,
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return nil
}

// Consume receives from a subscription until ctx is done.
func (p *PubSub) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if err := p.ensureOpen(); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	subscription := co.subscription
	if subscription == "" {
		subscription = co.groupName()
	}
	if subscription == "" {
		return ErrPubSubSubscriptionRequired
	}

	sub := p.client.Subscriber(subscription)
	sub.ReceiveSettings.NumGoroutines = co.concurrency
	if co.maxInFlight > 0 {
		sub.ReceiveSettings.MaxOutstandingMessages = co.maxInFlight
	}

	err := sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		//nolint:errcheck // Ack and Nack on pubsub messages do not fail
		_ = dispatch(ctx, DriverPubSub, handler, &pubSubMessage{topic: source, msg: m}, co.autoAck)
	})
	if err != nil {
		return fmt.Errorf("messaging: pubsub receive %s: %w", subscription, err)
	}
	return ctx.Err()
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, io.ErrClosedPipe
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}
	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub, nil
}

func (p *PubSub) ensureOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return io.ErrClosedPipe
	}
	return nil
}

type pubSubMessage struct {
	responder
	topic string
	msg   *pubsub.Message
}

func (m *pubSubMessage) Body() []byte             { return m.msg.Data }
func (m *pubSubMessage) Header(key string) string { return m.msg.Attributes[key] }
func (m *pubSubMessage) ID() string               { return m.msg.ID }
func (m *pubSubMessage) Destination() string      { return m.topic }
func (m *pubSubMessage) Timestamp() time.Time     { return m.msg.PublishTime }

// Attempts is only known when the subscription has a dead letter policy.
func (m *pubSubMessage) Attempts() int {
	if m.msg.DeliveryAttempt != nil {
		return *m.msg.DeliveryAttempt
	}
	return 0
}

func (m *pubSubMessage) Ack(context.Context) error {
	if m.claim() {
		m.msg.Ack()
	}
	return nil
}

func (m *pubSubMessage) Nack(context.Context) error {
	if m.claim() {
		m.msg.Nack()
	}
	return nil
}
