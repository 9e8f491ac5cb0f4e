// Package payment verifies payments against the external payment provider,
// which is the only source of truth for whether a payment completed.
package payment

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

var ErrUnknownPayment = errors.New("unknown payment id")

// Provider is the single read capability the checkout needs from the payment provider.
type Provider interface {
	LookupPayment(ctx context.Context, id string) (Lookup, error)
}

type Lookup struct {
	ID        string
	RawStatus string
	Payer     orders.Payer
	Amount    string
	Currency  string
}

type Result struct {
	Verdict   Verdict
	Status    Status
	RawStatus string
	Payer     orders.Payer
}

type Verifier struct {
	provider Provider
	log      *zap.Logger
	metrics  *telemetry.Metrics
}

func NewVerifier(p Provider, log *zap.Logger, m *telemetry.Metrics) *Verifier {
	return &Verifier{provider: p, log: log, metrics: m}
}

// Verify looks the payment up and classifies it. A failing lookup is an
// orders.ErrPaymentLookup error, never a NotCompleted verdict.
func (v *Verifier) Verify(ctx context.Context, paymentID string) (Result, error) {
	ctx, span := otel.Tracer("checkout").Start(ctx, "payment.Verify")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID))

	if strings.TrimSpace(paymentID) == "" {
		return Result{}, orders.Validationf("payment id is required")
	}

	lk, err := v.provider.LookupPayment(ctx, paymentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment lookup failed")
		v.metrics.PaymentVerified(ctx, "error")
		telemetry.WithTrace(ctx, v.log).Error("payment lookup failed",
			zap.String("payment_id", paymentID), zap.Error(err))
		return Result{}, orders.PaymentLookup(paymentID, err)
	}

	status := ParseStatus(lk.RawStatus)
	if status == StatusUnrecognized {
		telemetry.WithTrace(ctx, v.log).Warn("unrecognized provider status",
			zap.String("payment_id", paymentID), zap.String("raw_status", lk.RawStatus))
	}

	res := Result{
		Verdict:   VerdictFor(status),
		Status:    status,
		RawStatus: lk.RawStatus,
		Payer:     lk.Payer,
	}
	span.SetAttributes(attribute.String("payment.status", string(status)))
	v.metrics.PaymentVerified(ctx, res.Verdict.String())
	return res, nil
}
