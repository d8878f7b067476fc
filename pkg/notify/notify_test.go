package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tendant/leadflow/internal/metrics"
	"github.com/tendant/leadflow/pkg/domain"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() Event {
	task := &domain.Task{
		ID:            uuid.MustParse("6f1c2b1e-6e52-4c61-9f0a-0c7d1b1a2e11"),
		TenantID:      uuid.MustParse("0b9a0a5e-1f32-4b9b-8c35-4f3cf8d3a7a2"),
		ApplicationID: uuid.MustParse("d7b8c0e4-8a0b-4e3c-a1a6-2f3ac5a9e0f4"),
		Type:          domain.TaskTypeReview,
		DueAt:         time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC),
	}
	return TaskCreated(task, time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC))
}

func TestTaskCreated(t *testing.T) {
	event := sampleEvent()

	assert.Equal(t, EventTaskCreated, event.Type)
	assert.Equal(t, "review", event.TaskType)
	assert.Equal(t, "tenant.0b9a0a5e-1f32-4b9b-8c35-4f3cf8d3a7a2.task.created", event.RoutingKey())
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitMQPublisher{exchange: DefaultExchange, ch: ch}
	event := sampleEvent()

	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "leadflow.realtime", ch.exchange)
	assert.Equal(t, event.RoutingKey(), ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, EventTaskCreated, ch.msg.Type)

	var got Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, event, got)
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := &RabbitMQPublisher{exchange: DefaultExchange, ch: ch}

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestRabbitMQPublisher_Closed(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitMQPublisher{exchange: DefaultExchange, ch: ch}

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.Error(t, p.Publish(context.Background(), sampleEvent()))
}

func syncRunner(f func()) { f() }

func TestDispatcher_PublishesWithOwnContext(t *testing.T) {
	pub := new(MockPublisher)
	event := sampleEvent()

	pub.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline && ctx.Err() == nil
	}), event).Return(nil).Once()

	d := NewDispatcher(pub, time.Second, slog.Default(), WithRunner(syncRunner))
	d.Dispatch(event)

	pub.AssertExpectations(t)
}

func TestDispatcher_FailureIsLoggedNotReturned(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	d := NewDispatcher(pub, time.Second, logger, WithRunner(syncRunner))
	d.Dispatch(sampleEvent())

	pub.AssertNumberOfCalls(t, "Publish", 1)
	assert.Contains(t, buf.String(), "realtime publish failed")
	assert.Contains(t, buf.String(), "broker down")
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(context.Context, Event) error {
	panic("nil channel")
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	before := testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.ResultFailed))

	d := NewDispatcher(panickingPublisher{}, time.Second, logger, WithRunner(syncRunner))
	assert.NotPanics(t, func() { d.Dispatch(sampleEvent()) })

	assert.Contains(t, buf.String(), "realtime publish panicked")
	assert.Contains(t, buf.String(), "nil channel")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Notifications.WithLabelValues(metrics.ResultFailed)))
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		<-release
		close(done)
	}).Return(nil)

	d := NewDispatcher(pub, time.Second, slog.Default())
	d.Dispatch(sampleEvent())

	// Dispatch returned while Publish is still blocked.
	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish never ran")
	}
}

func TestDispatcher_NopPublisherSkips(t *testing.T) {
	ran := false
	d := NewDispatcher(nil, 0, nil, WithRunner(func(f func()) { ran = true; f() }))
	d.Dispatch(sampleEvent())
	assert.False(t, ran)
}
