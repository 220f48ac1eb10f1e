package messaging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const (
	defaultMemoryBuffer      = 256
	defaultMemoryMaxAttempts = 5
)

// MemoryConfig configures the in-process broker.
type MemoryConfig struct {
	// Buffer is the per-group queue size.
	Buffer int
	// MaxAttempts drops a message after this many nacked deliveries.
	MaxAttempts int
	// RequeueDelay is waited before a nacked message is delivered again.
	RequeueDelay time.Duration
}

// MemoryStats counts broker activity since start.
type MemoryStats struct {
	Published int64
	Acked     int64
	Nacked    int64
	Dropped   int64
}

// Memory is an in-process broker for local runs and tests.
//
// Every consumer group of a destination receives each message once; the
// consumers inside a group compete for it. Messages published before any
// group exists are kept and handed to the first group that subscribes.
type Memory struct {
	cfg MemoryConfig

	mu      sync.Mutex
	topics  map[string]*memoryTopic
	closed  bool
	closing chan struct{}
	seq     atomic.Uint64

	published atomic.Int64
	acked     atomic.Int64
	nacked    atomic.Int64
	dropped   atomic.Int64
}

type memoryTopic struct {
	groups  map[string]chan *memoryMessage
	backlog []*memoryMessage
}

// NewMemory returns an empty in-process broker.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultMemoryBuffer
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMemoryMaxAttempts
	}

	return &Memory{
		cfg:     cfg,
		topics:  map[string]*memoryTopic{},
		closing: make(chan struct{}),
	}
}

// Close stops delivery. Running Consume calls return.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.closing)
	}
	return nil
}

// Stats returns delivery counters.
func (m *Memory) Stats() MemoryStats {
	return MemoryStats{
		Published: m.published.Load(),
		Acked:     m.acked.Load(),
		Nacked:    m.nacked.Load(),
		Dropped:   m.dropped.Load(),
	}
}

// Publish queues msg for every group subscribed to destination.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	base := memoryMessage{
		broker:      m,
		id:          strconv.FormatUint(m.seq.Inc(), 10),
		destination: destination,
		body:        append([]byte(nil), msg.Body...),
		headers:     make(map[string]string, len(msg.Headers)),
		publishedAt: time.Now(),
	}
	for k, v := range msg.Headers {
		base.headers[k] = v
	}

	deliver := func() error {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return io.ErrClosedPipe
		}
		t := m.topic(destination)
		if len(t.groups) == 0 {
			t.backlog = append(t.backlog, base.copyFor(""))
			m.mu.Unlock()
			return nil
		}
		targets := make(map[string]chan *memoryMessage, len(t.groups))
		for g, ch := range t.groups {
			targets[g] = ch
		}
		m.mu.Unlock()

		for g, ch := range targets {
			if err := m.enqueue(ctx, ch, base.copyFor(g)); err != nil {
				return err
			}
		}
		return nil
	}

	m.published.Inc()
	if msg.Delay > 0 {
		time.AfterFunc(msg.Delay, func() {
			if err := deliver(); err != nil {
				slog.Warn("memory broker dropped delayed message", "destination", destination, "error", err)
				m.dropped.Inc()
			}
		})
		return nil
	}
	return deliver()
}

// Consume delivers messages of source to handler until ctx is done or the
// broker is closed. Consumers sharing a group name compete for messages.
func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := co.groupName()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return io.ErrClosedPipe
	}
	t := m.topic(source)
	ch, ok := t.groups[group]
	if !ok {
		ch = make(chan *memoryMessage, m.cfg.Buffer)
		t.groups[group] = ch
	}
	backlog := t.backlog
	t.backlog = nil
	m.mu.Unlock()

	for _, msg := range backlog {
		msg.group = group
		if err := m.enqueue(ctx, ch, msg); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.closing:
					return
				case msg := <-ch:
					msg.queue = ch
					//nolint:errcheck // Ack/Nack on memory never fail
					_ = dispatch(ctx, DriverMemory, handler, msg, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	select {
	case <-m.closing:
		return nil
	default:
		return ctx.Err()
	}
}

func (m *Memory) topic(name string) *memoryTopic {
	t, ok := m.topics[name]
	if !ok {
		t = &memoryTopic{groups: map[string]chan *memoryMessage{}}
		m.topics[name] = t
	}
	return t
}

func (m *Memory) enqueue(ctx context.Context, ch chan *memoryMessage, msg *memoryMessage) error {
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.closing:
		return io.ErrClosedPipe
	}
}

func (m *Memory) redeliver(msg *memoryMessage) {
	if msg.attempts >= m.cfg.MaxAttempts {
		m.dropped.Inc()
		slog.Warn("memory broker dropped message after max attempts",
			"destination", msg.destination, "id", msg.id, "attempts", msg.attempts)
		return
	}

	next := msg.copyFor(msg.group)
	next.attempts = msg.attempts + 1

	send := func() {
		//nolint:errcheck // only fails when the broker is closing
		_ = m.enqueue(context.Background(), msg.queue, next)
	}
	if m.cfg.RequeueDelay > 0 {
		time.AfterFunc(m.cfg.RequeueDelay, send)
		return
	}
	go send()
}

type memoryMessage struct {
	responder
	broker      *Memory
	queue       chan *memoryMessage
	id          string
	group       string
	destination string
	body        []byte
	headers     map[string]string
	publishedAt time.Time
	attempts    int
}

func (m *memoryMessage) copyFor(group string) *memoryMessage {
	return &memoryMessage{
		broker:      m.broker,
		id:          m.id,
		group:       group,
		destination: m.destination,
		body:        m.body,
		headers:     m.headers,
		publishedAt: m.publishedAt,
		attempts:    max(m.attempts, 1),
	}
}

func (m *memoryMessage) Body() []byte             { return m.body }
func (m *memoryMessage) Header(key string) string { return m.headers[key] }
func (m *memoryMessage) ID() string               { return m.id }
func (m *memoryMessage) Destination() string      { return m.destination }
func (m *memoryMessage) Timestamp() time.Time     { return m.publishedAt }
func (m *memoryMessage) Attempts() int            { return m.attempts }

func (m *memoryMessage) Ack(context.Context) error {
	if m.claim() {
		m.broker.acked.Inc()
	}
	return nil
}

func (m *memoryMessage) Nack(context.Context) error {
	if m.claim() {
		m.broker.nacked.Inc()
		m.broker.redeliver(m)
	}
	return nil
}
