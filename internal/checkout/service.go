// Package checkout orchestrates the order lifecycle: pricing on creation,
// payment verification on confirmation, and notification of both.
package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/payment"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

type Verifier interface {
	Verify(ctx context.Context, paymentID string) (payment.Result, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, ev orders.Event) notify.Report
}

type Deps struct {
	Pricing  *orders.Pricing // nil means orders.DefaultPricing()
	Verifier Verifier
	Notifier Notifier
	IDs      orders.IDGenerator // default orders.NewTimeIDs()
	Clock    func() time.Time   // default time.Now
	Currency string
	// Detach runs notifications in the background after the caller gets its response.
	Detach  bool
	Log     *zap.Logger
	Metrics *telemetry.Metrics
}

type Service struct {
	pricing  orders.Pricing
	verifier Verifier
	notifier Notifier
	ids      orders.IDGenerator
	now      func() time.Time
	currency string
	detach   bool
	log      *zap.Logger
	metrics  *telemetry.Metrics

	inflight sync.WaitGroup
}

func New(d Deps) *Service {
	s := &Service{
		pricing:  orders.DefaultPricing(),
		verifier: d.Verifier,
		notifier: d.Notifier,
		ids:      d.IDs,
		now:      d.Clock,
		currency: d.Currency,
		detach:   d.Detach,
		log:      d.Log,
		metrics:  d.Metrics,
	}
	if d.Pricing != nil {
		s.pricing = *d.Pricing
	}
	if s.ids == nil {
		s.ids = orders.NewTimeIDs()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

type CreateOrderInput struct {
	Customer *orders.Customer
	Items    []orders.LineItem
	// ShippingHint is the client's own shipping figure; informational only.
	ShippingHint *decimal.Decimal
}

type CreateOrderResult struct {
	OrderID string
	Total   decimal.Decimal
	Order   orders.Order
}

// CreateOrder prices the items and announces the pending order. Notification
// failures never fail the call.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.CreateOrder")
	defer span.End()

	if in.Customer.IsZero() {
		return CreateOrderResult{}, fail(span, orders.Validationf("customer is required"))
	}
	if len(in.Items) == 0 {
		return CreateOrderResult{}, fail(span, orders.Validationf("items must be a non-empty list"))
	}

	quote, err := s.pricing.Compute(in.Items)
	if err != nil {
		return CreateOrderResult{}, fail(span, err)
	}

	order := orders.Order{
		ID:           s.ids.NewOrderID(),
		Customer:     *in.Customer,
		Items:        append([]orders.LineItem(nil), in.Items...),
		Subtotal:     quote.Subtotal,
		ShippingCost: quote.ShippingCost,
		Total:        quote.Total,
		Currency:     s.currency,
		Status:       orders.StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.Total.StringFixed(2)),
		attribute.Int("order.items", len(order.Items)),
	)

	log := telemetry.WithTrace(ctx, s.log).With(zap.String("order_id", order.ID))
	if in.ShippingHint != nil && !in.ShippingHint.Equal(quote.ShippingCost) {
		log.Warn("client shipping differs from server pricing",
			zap.String("client_shipping", in.ShippingHint.StringFixed(2)),
			zap.String("shipping", quote.ShippingCost.StringFixed(2)))
	}
	log.Info("order created",
		zap.String("subtotal", order.Subtotal.StringFixed(2)),
		zap.String("shipping", order.ShippingCost.StringFixed(2)),
		zap.String("total", order.Total.StringFixed(2)))
	s.metrics.OrderCreated(ctx)

	s.notify(ctx, orders.OrderCreated{Order: order})

	return CreateOrderResult{OrderID: order.ID, Total: order.Total, Order: order}, nil
}

type ConfirmOrderInput struct {
	// OrderID is trusted as given; there is no order store to check it against.
	OrderID   string
	PaymentID string
	// Payer is what the client reported. The provider's payer takes precedence.
	Payer orders.Payer
}

type ConfirmOrderResult struct {
	OrderID       string
	TransactionID string
	Confirmation  orders.PaymentConfirmation
}

// ConfirmOrder verifies the payment with the provider and announces the paid
// order. A payment that is not completed fails without any notification.
func (s *Service) ConfirmOrder(ctx context.Context, in ConfirmOrderInput) (ConfirmOrderResult, error) {
	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.ConfirmOrder")
	defer span.End()

	paymentID := strings.TrimSpace(in.PaymentID)
	if paymentID == "" {
		return ConfirmOrderResult{}, fail(span, orders.Validationf("paymentDetails.id is required"))
	}
	span.SetAttributes(attribute.String("order.id", in.OrderID), attribute.String("payment.id", paymentID))

	res, err := s.verifier.Verify(ctx, paymentID)
	if err != nil {
		return ConfirmOrderResult{}, fail(span, err)
	}

	log := telemetry.WithTrace(ctx, s.log).With(
		zap.String("order_id", in.OrderID),
		zap.String("payment_id", paymentID))

	if res.Verdict != payment.Completed {
		raw := res.RawStatus
		if raw == "" {
			raw = string(res.Status)
		}
		log.Info("payment not completed", zap.String("provider_status", raw))
		return ConfirmOrderResult{}, fail(span, orders.PaymentNotCompleted(paymentID, raw))
	}

	payer := res.Payer
	if payer.Email == "" {
		payer.Email = strings.TrimSpace(in.Payer.Email)
	}
	if payer.Name == "" {
		payer.Name = strings.TrimSpace(in.Payer.Name)
	}

	// tanpa order store, order yang dikonfirmasi selalu dianggap pending
	conf, err := orders.Confirm(in.OrderID, paymentID, orders.StatusPending, s.now().UTC(), payer)
	if err != nil {
		return ConfirmOrderResult{}, fail(span, err)
	}
	log.Info("order paid")
	s.metrics.OrderPaid(ctx)

	s.notify(ctx, orders.OrderPaid{Confirmation: conf})

	return ConfirmOrderResult{OrderID: conf.OrderID, TransactionID: conf.TransactionID, Confirmation: conf}, nil
}

// notify dispatches on a context detached from request cancellation, so a
// client disconnect does not abort delivery.
func (s *Service) notify(ctx context.Context, ev orders.Event) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if !s.detach {
		s.notifier.Dispatch(ctx, ev)
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.notifier.Dispatch(ctx, ev)
	}()
}

// Drain waits for background notifications, or until ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, orders.CodeOf(err))
	return err
}
