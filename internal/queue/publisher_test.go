package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	declared   []string
	exchange   string
	key        string
	msg        amqp.Publishing
	publishErr error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.publishErr
}

func newTestPublisher(ch *fakeChannel, closed *bool) *AMQPPublisher {
	p := NewAMQPPublisher("", zap.NewNop())
	p.dial = func(url string) (channel, func(), error) {
		return ch, func() { *closed = true }, nil
	}
	return p
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	closed := false
	p := newTestPublisher(ch, &closed)

	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{Type: CourseCreated, TenantID: 1, EntityID: 9, OccurredAt: at})
	require.NoError(t, err)

	assert.Equal(t, []string{"hr.events/topic"}, ch.declared)
	assert.Equal(t, Exchange, ch.exchange)
	assert.Equal(t, CourseCreated, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.True(t, closed)

	var got Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, int64(9), got.EntityID)
	assert.Equal(t, int64(1), got.TenantID)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	closed := false
	p := newTestPublisher(ch, &closed)

	err := p.Publish(context.Background(), Event{Type: EmployeeCreated})
	require.EqualError(t, err, "channel closed")
	assert.True(t, closed)
}

func TestAMQPPublisher_DialError(t *testing.T) {
	p := NewAMQPPublisher("amqp://nowhere", zap.NewNop())
	p.dial = func(url string) (channel, func(), error) {
		assert.Equal(t, "amqp://nowhere", url)
		return nil, nil, errors.New("refused")
	}
	require.EqualError(t, p.Publish(context.Background(), Event{Type: CourseDeleted}), "refused")
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
