package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// HeaderCorrelationID carries the request correlation ID across the broker.
const HeaderCorrelationID = "cID"

// ErrUnsupported is returned when a feature is not supported by the selected broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

var (
	// ErrDestinationRequired is returned when the topic/subject is empty.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging is a broker client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// Consumer consumes messages from a source. Consume blocks until ctx is
// done or the broker connection fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// With auto-ack enabled a nil error acks and a non-nil error nacks, unless
// the handler already responded itself.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	Body []byte
	// Key is used by Kafka for partitioning.
	Key []byte
	// Headers are dropped by brokers that cannot carry them (NSQ).
	Headers map[string]string
	// Delay defers delivery when the broker supports it.
	Delay time.Duration
}

// Message is a received message.
type Message interface {
	Body() []byte
	Header(key string) string
	ID() string
	Destination() string
	Timestamp() time.Time
	// Attempts is the delivery count starting at 1, or 0 when the broker
	// does not track it.
	Attempts() int

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
