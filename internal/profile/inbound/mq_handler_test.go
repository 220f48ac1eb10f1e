package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/config"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goroutine"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/instrument"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/messaging"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
	"github.com/shandysiswandi/opcode-profile/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, yaml string) config.Config {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	return cfg
}

func TestRegisterMQConsumer(t *testing.T) {
	// Arrange
	broker := messaging.NewMemory(messaging.MemoryConfig{MaxAttempts: 2})
	t.Cleanup(func() { _ = broker.Close() })

	uc := &fakeUsecase{}
	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(4)
	RegisterMQConsumer(ctx, newTestConfig(t, "modules: {}"), routine, broker, staticID("cid-gen"), uc, instrument.NewNoop())

	// Act
	require.NoError(t, broker.Publish(ctx, event.UserRegistrationDestination, messaging.OutgoingMessage{
		Body:    []byte(`{"user_id":"42","email":"new@example.com","full_name":"New Member"}`),
		Headers: map[string]string{messaging.HeaderCorrelationID: "cid-upstream"},
	}))
	require.NoError(t, broker.Publish(ctx, event.UserRegistrationDestination, messaging.OutgoingMessage{
		Body: []byte(`not json`),
	}))

	// Assert
	assert.Eventually(t, func() bool {
		return broker.Stats().Acked == 2
	}, 2*time.Second, 10*time.Millisecond)

	registered, _ := uc.snapshot()
	require.Len(t, registered, 1)
	assert.Equal(t, usecase.ConsumeUserRegistrationInput{UserID: 42, Email: "new@example.com", FullName: "New Member"}, registered[0])

	cancel()
	assert.NoError(t, routine.Wait())
}

func TestRegisterMQConsumer_Disabled(t *testing.T) {
	broker := messaging.NewMemory(messaging.MemoryConfig{})
	t.Cleanup(func() { _ = broker.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	routine := goroutine.NewManager(4)

	RegisterMQConsumer(ctx, newTestConfig(t, "modules:\n  profile:\n    consumer_names: other_consumer\n"),
		routine, broker, staticID("cid"), &fakeUsecase{}, instrument.NewNoop())

	cancel()
	assert.NoError(t, routine.Wait())
}

type fakeMessage struct {
	body    string
	headers map[string]string
}

func (m fakeMessage) Body() []byte { return []byte(m.body) }
func (m fakeMessage) Header(key string) string { return m.headers[key] }
func (fakeMessage) ID() string { return "1" }
func (fakeMessage) Destination() string { return event.UserRegistrationDestination }
func (fakeMessage) Timestamp() time.Time { return time.Time{} }
func (fakeMessage) Attempts() int { return 1 }
func (fakeMessage) Ack(context.Context) error { return nil }
func (fakeMessage) Nack(context.Context) error { return nil }

func TestMQHandler_UserRegistration(t *testing.T) {
	t.Run("usecase failure is returned for redelivery", func(t *testing.T) {
		errDB := errors.New("db down")
		h := &MQHandler{uc: &fakeUsecase{registerFn: func() error { return errDB }}, uuid: staticID("cid"), ins: instrument.NewNoop()}

		err := h.UserRegistration(context.Background(), fakeMessage{body: `{"user_id":"1"}`})

		assert.ErrorIs(t, err, errDB)
	})

	t.Run("correlation id from header", func(t *testing.T) {
		h := &MQHandler{uc: &fakeUsecase{}, uuid: staticID("generated"), ins: instrument.NewNoop()}

		ctx := h.ensureCorrelationID(context.Background(), fakeMessage{headers: map[string]string{messaging.HeaderCorrelationID: "upstream"}})
		assert.Equal(t, "upstream", instrument.GetCorrelationID(ctx))

		ctx = h.ensureCorrelationID(context.Background(), fakeMessage{})
		assert.Equal(t, "generated", instrument.GetCorrelationID(ctx))
	})
}
