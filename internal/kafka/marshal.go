package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventID      = "x-event-id"
	HeaderEventVersion = "x-event-version"
)

// EnvelopeMessage wraps env into a message keyed by order id.
func EnvelopeMessage(topic string, env orders.Envelope) (kafka.Message, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   orders.PartitionKey(env.CorrelationID),
		Value: b,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(env.EventType)},
			{Key: HeaderEventID, Value: []byte(env.EventID)},
			{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}, nil
}

func DecodeEnvelope(m kafka.Message) (orders.Envelope, error) {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventID == "" || env.EventType == "" {
		return env, fmt.Errorf("decode envelope: missing event id or type")
	}
	return env, nil
}

// Header returns the value of the first header named key.
func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
