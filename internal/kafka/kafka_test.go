package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      chan kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumer_CommitsOnlyHandledMessages(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 4)}
	r.msgs <- kafka.Message{Offset: 1, Value: []byte("ok")}
	r.msgs <- kafka.Message{Offset: 2, Value: []byte("fail")}
	r.msgs <- kafka.Message{Offset: 3, Value: []byte("ok")}

	c := newConsumer(r, 1, zap.NewNop())
	c.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var handled sync.WaitGroup
	handled.Add(3)
	h := func(_ context.Context, m kafka.Message) error {
		defer handled.Done()
		if string(m.Value) == "fail" {
			return errors.New("nope")
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	handled.Wait()
	cancel()

	require.NoError(t, <-done)
	assert.ElementsMatch(t, []int64{1, 3}, r.commits())
	assert.True(t, r.closed)
}

func TestProducer_PublishAfterCloseFails(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "order.created", 1, zap.NewNop())
	p.Close()
	p.Close()

	err := p.Publish(context.Background(), kafka.Message{Value: []byte("x")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducer_PublishRespectsContext(t *testing.T) {
	// loop not started, so the one-slot buffer fills up
	p := NewProducer([]string{"127.0.0.1:1"}, "order.created", 1, zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), kafka.Message{Value: []byte("a")}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Publish(ctx, kafka.Message{Value: []byte("b")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnvelopeMessage_RoundTrip(t *testing.T) {
	env, err := orders.NewEnvelope(orders.OrderCreated{Order: orders.Order{ID: "ORD-9"}}, "checkout-api", "")
	require.NoError(t, err)

	m, err := EnvelopeMessage(orders.TopicOrderCreated, env)
	require.NoError(t, err)
	assert.Equal(t, []byte("ORD-9"), m.Key)
	assert.Equal(t, orders.EventOrderCreated, Header(m, HeaderEventType))
	assert.Equal(t, env.EventID, Header(m, HeaderEventID))
	assert.Equal(t, "1", Header(m, HeaderEventVersion))
	assert.Empty(t, Header(m, "missing"))

	got, err := DecodeEnvelope(m)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, got.EventID)
}

func TestDecodeEnvelope_Rejects(t *testing.T) {
	_, err := DecodeEnvelope(kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
	_, err = DecodeEnvelope(kafka.Message{Value: []byte(`{"event_type":"OrderPaid"}`)})
	assert.Error(t, err)
}
