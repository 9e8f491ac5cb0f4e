package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuote(t *testing.T) {
	out, err := run(t, `{"items": [{"name": "Hoodie", "price": 30, "quantity": 2}]}`, "quote")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal: 60.00 EUR")
	assert.Contains(t, out, "Shipping: 0.00 EUR")
	assert.Contains(t, out, "Total:    60.00 EUR")
}

func TestQuote_BareList(t *testing.T) {
	out, err := run(t, `[{"name": "Mug", "price": "10"}]`, "quote", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:    13.49 EUR")
}

func TestQuote_EmptyCart(t *testing.T) {
	_, err := run(t, `{"items": []}`, "quote")
	assert.ErrorIs(t, err, orders.ErrValidation)
}

func TestAlert_NoChannels(t *testing.T) {
	out, err := run(t, "", "alert", "--event", "paid")
	require.NoError(t, err)
	assert.Contains(t, out, "no channel configured")
}

func TestAlert_UnknownEvent(t *testing.T) {
	_, err := run(t, "", "alert", "--event", "shipped")
	assert.Error(t, err)
}

func TestVerify_RequiresCredentials(t *testing.T) {
	_, err := run(t, "", "verify", "PAY-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYPAL_CLIENT_ID")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, notify.Report{EventType: "OrderPaid", OrderID: "ORD-1", Results: []notify.Result{
		{Channel: "team-alert"},
		{Channel: "customer-email", Err: errors.New("smtp down")},
	}})
	assert.Contains(t, buf.String(), "team-alert")
	assert.Contains(t, buf.String(), "FAILED: smtp down")
}
