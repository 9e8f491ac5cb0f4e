// Package notify fans lifecycle events out to independent notification channels.
//
// Every channel accepting an event is sent concurrently. A failing or slow
// channel never affects another one, and failures are reported, not returned.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

type Channel interface {
	Name() string
	// Accepts reports whether the channel is configured and has something to send for ev.
	Accepts(ev orders.Event) bool
	Send(ctx context.Context, ev orders.Event) error
}

type Result struct {
	Channel  string
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool { return r.Err == nil }

// Report lists one Result per channel that attempted the event.
type Report struct {
	EventType string
	OrderID   string
	Results   []Result
}

func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

type Dispatcher struct {
	channels []Channel
	log      *zap.Logger
	metrics  *telemetry.Metrics
}

func NewDispatcher(log *zap.Logger, m *telemetry.Metrics, channels ...Channel) *Dispatcher {
	d := &Dispatcher{log: log, metrics: m}
	for _, ch := range channels {
		if ch != nil {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// Channels returns the names of the configured channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch sends ev on every accepting channel and waits for all of them to settle.
func (d *Dispatcher) Dispatch(ctx context.Context, ev orders.Event) Report {
	ctx, span := otel.Tracer("checkout").Start(ctx, "notify.Dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.type", ev.EventType()),
		attribute.String("order.id", ev.OrderID()),
	)

	var targets []Channel
	for _, ch := range d.channels {
		if ch.Accepts(ev) {
			targets = append(targets, ch)
		}
	}

	results := make([]Result, len(targets))
	var g errgroup.Group
	for i, ch := range targets {
		g.Go(func() error {
			results[i] = d.send(ctx, ch, ev)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{EventType: ev.EventType(), OrderID: ev.OrderID(), Results: results}
	log := telemetry.WithTrace(ctx, d.log)
	for _, res := range report.Failed() {
		log.Error("notification failed",
			zap.String("channel", res.Channel),
			zap.String("event_type", report.EventType),
			zap.String("order_id", report.OrderID),
			zap.Error(res.Err))
	}
	log.Debug("notifications dispatched",
		zap.String("event_type", report.EventType),
		zap.String("order_id", report.OrderID),
		zap.Int("attempted", len(results)),
		zap.Int("failed", len(report.Failed())))
	return report
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, ev orders.Event) (res Result) {
	ctx, span := otel.Tracer("checkout").Start(ctx, "notify."+ch.Name())
	defer span.End()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("channel %s panicked: %v", ch.Name(), p)
		}
		res.Channel = ch.Name()
		res.Duration = time.Since(start)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "send failed")
		}
		d.metrics.Notification(ctx, ch.Name(), ev.EventType(), res.Duration, res.Err == nil)
	}()

	return Result{Err: ch.Send(ctx, ev)}
}
