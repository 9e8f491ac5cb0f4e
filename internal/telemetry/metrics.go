package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records checkout counters. A nil *Metrics records nothing.
type Metrics struct {
	ordersCreated  metric.Int64Counter
	ordersPaid     metric.Int64Counter
	verifications  metric.Int64Counter
	notifications  metric.Int64Counter
	notifyDuration metric.Float64Histogram
}

// SetupMetrics installs a MeterProvider backed by the Prometheus exporter.
// The exporter registers with the default Prometheus registry, so promhttp.Handler
// serves it.
func SetupMetrics() (*sdkmetric.MeterProvider, error) {
	exp, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("telemetry: create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("checkout")

	ordersCreated, err := meter.Int64Counter("checkout_orders_created_total",
		metric.WithDescription("Orders accepted by CreateOrder"))
	if err != nil {
		return nil, err
	}
	ordersPaid, err := meter.Int64Counter("checkout_orders_paid_total",
		metric.WithDescription("Orders confirmed as paid"))
	if err != nil {
		return nil, err
	}
	verifications, err := meter.Int64Counter("checkout_payment_verifications_total",
		metric.WithDescription("Payment provider verifications by result"))
	if err != nil {
		return nil, err
	}
	notifications, err := meter.Int64Counter("checkout_notifications_total",
		metric.WithDescription("Notification channel deliveries"))
	if err != nil {
		return nil, err
	}
	notifyDuration, err := meter.Float64Histogram("checkout_notification_duration_seconds",
		metric.WithDescription("Notification channel delivery duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersCreated:  ordersCreated,
		ordersPaid:     ordersPaid,
		verifications:  verifications,
		notifications:  notifications,
		notifyDuration: notifyDuration,
	}, nil
}

func (m *Metrics) OrderCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1)
}

func (m *Metrics) OrderPaid(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersPaid.Add(ctx, 1)
}

// PaymentVerified counts a verification; result is "completed", "not_completed" or "error".
func (m *Metrics) PaymentVerified(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *Metrics) Notification(ctx context.Context, channel, event string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("event", event),
		attribute.Bool("success", success),
	))
	m.notifyDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("channel", channel)))
}
