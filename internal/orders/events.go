package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderPaid    = "OrderPaid"
)

// Event is a lifecycle notification: OrderCreated or OrderPaid.
type Event interface {
	EventType() string
	OrderID() string
}

type OrderCreated struct {
	Order Order `json:"order"`
}

func (OrderCreated) EventType() string  { return EventOrderCreated }
func (e OrderCreated) OrderID() string { return e.Order.ID }

type OrderPaid struct {
	Confirmation PaymentConfirmation `json:"confirmation"`
}

func (OrderPaid) EventType() string  { return EventOrderPaid }
func (e OrderPaid) OrderID() string { return e.Confirmation.OrderID }

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g., "checkout-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(ev Event, producer, traceID string) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", ev.EventType(), err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     ev.EventType(),
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: ev.OrderID(),
		Payload:       payload,
	}, nil
}

// Decode returns the typed event carried by the envelope.
func (env Envelope) Decode() (Event, error) {
	switch env.EventType {
	case EventOrderCreated:
		var ev OrderCreated
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.EventType, err)
		}
		return ev, nil
	case EventOrderPaid:
		var ev OrderPaid
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.EventType, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.EventType)
	}
}
