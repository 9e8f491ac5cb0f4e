package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/checkout"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/payment"
)

type fakeCheckout struct {
	CreateFunc  func(ctx context.Context, in checkout.CreateOrderInput) (checkout.CreateOrderResult, error)
	ConfirmFunc func(ctx context.Context, in checkout.ConfirmOrderInput) (checkout.ConfirmOrderResult, error)
}

func (f *fakeCheckout) CreateOrder(ctx context.Context, in checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
	return f.CreateFunc(ctx, in)
}

func (f *fakeCheckout) ConfirmOrder(ctx context.Context, in checkout.ConfirmOrderInput) (checkout.ConfirmOrderResult, error) {
	return f.ConfirmFunc(ctx, in)
}

func newTestServer(t *testing.T, c Checkout) *httptest.Server {
	t.Helper()
	r := NewRouter(RouterOptions{Log: zap.NewNop(), AllowedOrigins: []string{"*"}})
	(&OrdersHandler{Checkout: c, Log: zap.NewNop()}).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeCheckout{})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestCreateOrder_Created(t *testing.T) {
	var got checkout.CreateOrderInput
	srv := newTestServer(t, &fakeCheckout{CreateFunc: func(_ context.Context, in checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
		got = in
		return checkout.CreateOrderResult{OrderID: "ORD-1", Total: decimal.RequireFromString("60")}, nil
	}})

	resp, body := post(t, srv.URL+"/orders", `{
		"customer": {"fullName": "Ada Lovelace", "email": "ada@example.com", "address": {"street": "Main St 1", "zip": "10115", "city": "Berlin"}},
		"items": [{"name": "Hoodie", "price": 30, "quantity": 2, "selectedSize": "M"}],
		"shipping": 0
	}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ORD-1", body["orderId"])
	assert.Equal(t, 60.0, body["total"])

	require.NotNil(t, got.Customer)
	assert.Equal(t, "Berlin", got.Customer.Address.City)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "30", got.Items[0].Price.String())
	require.NotNil(t, got.ShippingHint)
}

func TestCreateOrder_TotalHasTwoDecimals(t *testing.T) {
	srv := newTestServer(t, &fakeCheckout{CreateFunc: func(context.Context, checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
		return checkout.CreateOrderResult{OrderID: "ORD-1", Total: decimal.RequireFromString("13.49")}, nil
	}})
	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "13.49", string(raw["total"]))
}

func TestCreateOrder_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"invalid json", `{"items": "nope"`, nil, http.StatusBadRequest, "validation_error"},
		{"items not a list", `{"items": {"name": "x"}}`, nil, http.StatusBadRequest, "validation_error"},
		{"validation", `{}`, orders.Validationf("customer is required"), http.StatusBadRequest, "validation_error"},
		{"unexpected", `{}`, errors.New("boom"), http.StatusInternalServerError, "unexpected_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeCheckout{CreateFunc: func(context.Context, checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
				return checkout.CreateOrderResult{}, tc.err
			}})
			resp, body := post(t, srv.URL+"/orders", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestCreateOrder_UnexpectedErrorIsNotLeaked(t *testing.T) {
	srv := newTestServer(t, &fakeCheckout{CreateFunc: func(context.Context, checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
		return checkout.CreateOrderResult{}, errors.New("dial tcp 10.0.0.7:5432: secret detail")
	}})
	_, body := post(t, srv.URL+"/orders", `{}`)
	assert.NotContains(t, body["message"], "secret")
}

func TestConfirmOrder_OK(t *testing.T) {
	var got checkout.ConfirmOrderInput
	srv := newTestServer(t, &fakeCheckout{ConfirmFunc: func(_ context.Context, in checkout.ConfirmOrderInput) (checkout.ConfirmOrderResult, error) {
		got = in
		return checkout.ConfirmOrderResult{OrderID: in.OrderID, TransactionID: in.PaymentID}, nil
	}})

	resp, body := post(t, srv.URL+"/orders/ORD-1/confirm", `{"paymentDetails": {"id": "PAY-123", "status": "COMPLETED",
		"payer": {"email_address": "ada@example.com", "name": {"given_name": "Ada", "surname": "Lovelace"}}}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ORD-1", body["orderId"])
	assert.Equal(t, "PAY-123", body["transactionId"])
	assert.Equal(t, orders.Payer{Name: "Ada Lovelace", Email: "ada@example.com"}, got.Payer)
}

func TestConfirmOrder_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"missing payment details", `{}`, nil, http.StatusBadRequest, "validation_error"},
		{"not completed", `{"paymentDetails": {"id": "PAY-1"}}`, orders.PaymentNotCompleted("PAY-1", "APPROVED"), http.StatusBadRequest, "payment_not_completed"},
		{"lookup failed", `{"paymentDetails": {"id": "PAY-1"}}`, orders.PaymentLookup("PAY-1", errors.New("401")), http.StatusInternalServerError, "payment_lookup_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeCheckout{ConfirmFunc: func(context.Context, checkout.ConfirmOrderInput) (checkout.ConfirmOrderResult, error) {
				return checkout.ConfirmOrderResult{}, tc.err
			}})
			resp, body := post(t, srv.URL+"/orders/ORD-1/confirm", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

type failingPoster struct{}

func (failingPoster) PostJSON(context.Context, string, any) error { return errors.New("webhook down") }

// Full stack: real checkout service, failing webhook.
func TestCreateOrder_WebhookFailureStill201(t *testing.T) {
	d := notify.NewDispatcher(zap.NewNop(), nil, &notify.AlertChannel{URL: "https://hooks.example", Poster: failingPoster{}})
	svc := checkout.New(checkout.Deps{Notifier: d, Log: zap.NewNop()})
	srv := newTestServer(t, svc)

	resp, body := post(t, srv.URL+"/orders", `{"customer": {"fullName": "Ada"}, "items": [{"name": "Mug", "price": "10.00"}]}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 13.49, body["total"])
	assert.True(t, strings.HasPrefix(body["orderId"].(string), "ORD-"))
}

type stubVerifier struct{ verdict payment.Verdict }

func (v stubVerifier) Verify(context.Context, string) (payment.Result, error) {
	return payment.Result{Verdict: v.verdict, RawStatus: "APPROVED"}, nil
}

func TestConfirmOrder_FullStackNotCompleted(t *testing.T) {
	svc := checkout.New(checkout.Deps{Verifier: stubVerifier{verdict: payment.NotCompleted}, Log: zap.NewNop()})
	srv := newTestServer(t, svc)

	resp, body := post(t, srv.URL+"/orders/ORD-1/confirm", `{"paymentDetails": {"id": "PAY-1"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "payment_not_completed", body["error"])
}

func TestRecoverer_PanicGetsErrorBody(t *testing.T) {
	srv := newTestServer(t, &fakeCheckout{CreateFunc: func(context.Context, checkout.CreateOrderInput) (checkout.CreateOrderResult, error) {
		panic("nil map write")
	}})

	resp, body := post(t, srv.URL+"/orders", `{}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "unexpected_error", body["error"])
	assert.NotContains(t, body["message"], "nil map")
}
