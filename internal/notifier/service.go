// Package notifier consumes order events from Kafka and delivers them through
// the notification channels, once per event.
package notifier

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-storefront-checkout/internal/kafka"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, ev orders.Event) notify.Report
}

// Deduper is implemented by *redisx.Dedup. An id is marked only after its
// delivery finished, so a crash mid-delivery leads to a redelivery, not a loss.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

type Service struct {
	Dispatcher Dispatcher
	Dedup      Deduper // nil disables dedup
	Log        *zap.Logger
}

// HandleEvent dipasang sebagai handler consumer.
// Undecodable messages and failed deliveries are committed; only a failing
// dedup lookup asks for redelivery. Delivery is at-least-once.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	env, err := kafkax.DecodeEnvelope(m)
	if err != nil {
		s.Log.Warn("skipping undecodable message", zap.String("topic", m.Topic), zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	log := s.Log.With(
		zap.String("event_id", env.EventID),
		zap.String("event_type", env.EventType),
		zap.String("order_id", env.CorrelationID),
		zap.String("trace_id", env.TraceID))

	if h := kafkax.Header(m, kafkax.HeaderEventType); h != "" && h != env.EventType {
		log.Warn("skipping event, header and envelope disagree", zap.String("header_event_type", h))
		return nil
	}

	ev, err := env.Decode()
	if err != nil {
		log.Warn("skipping event", zap.Error(err))
		return nil
	}

	// 2) dedup via Redis (pakai event_id)
	if s.Dedup != nil {
		seen, err := s.Dedup.Seen(ctx, env.EventID)
		if err != nil {
			return err
		}
		if seen {
			log.Debug("duplicate event ignored")
			return nil
		}
	}

	// 3) fan-out; channel failures sudah di-log oleh dispatcher, offset tetap di-commit
	report := s.Dispatcher.Dispatch(ctx, ev)
	log.Info("event delivered", zap.Int("channels", len(report.Results)), zap.Int("failed", len(report.Failed())))

	// 4) tandai selesai setelah dispatch
	if s.Dedup != nil {
		if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
			log.Warn("dedup mark failed, a redelivery will notify again", zap.Error(err))
		}
	}
	return nil
}
