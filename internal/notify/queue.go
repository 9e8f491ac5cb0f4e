package notify

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"

	kafkax "github.com/ariefcatur/go-storefront-checkout/internal/kafka"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

// Publisher is implemented by *kafkax.Producer.
type Publisher interface {
	Publish(ctx context.Context, m kafkago.Message) error
}

// QueueChannel hands events to the order-event topics; the notifier process
// performs the actual deliveries.
type QueueChannel struct {
	Publisher Publisher
	Producer  string
}

func (c *QueueChannel) Name() string { return "order-events" }

func (c *QueueChannel) Accepts(ev orders.Event) bool {
	return c.Publisher != nil && orders.TopicFor(ev.EventType()) != ""
}

func (c *QueueChannel) Send(ctx context.Context, ev orders.Event) error {
	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	env, err := orders.NewEnvelope(ev, c.Producer, traceID)
	if err != nil {
		return err
	}
	m, err := kafkax.EnvelopeMessage(orders.TopicFor(ev.EventType()), env)
	if err != nil {
		return err
	}
	return c.Publisher.Publish(ctx, m)
}
