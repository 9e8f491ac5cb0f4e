package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	LookupFunc func(ctx context.Context, id string) (Lookup, error)
	Calls      []string
}

func (m *MockProvider) LookupPayment(ctx context.Context, id string) (Lookup, error) {
	m.Calls = append(m.Calls, id)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, id)
	}
	return Lookup{ID: id, RawStatus: "COMPLETED"}, nil
}

func withStatus(raw string) *MockProvider {
	return &MockProvider{LookupFunc: func(_ context.Context, id string) (Lookup, error) {
		return Lookup{ID: id, RawStatus: raw, Payer: orders.Payer{Email: "payer@example.com"}}, nil
	}}
}

func TestVerify_Completed(t *testing.T) {
	v := NewVerifier(withStatus("COMPLETED"), zap.NewNop(), nil)

	res, err := v.Verify(context.Background(), "PAY-123")
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Verdict)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, "payer@example.com", res.Payer.Email)
}

func TestVerify_OtherStatusesAreNotCompleted(t *testing.T) {
	for _, raw := range []string{"CREATED", "APPROVED", "VOIDED", "PAYER_ACTION_REQUIRED", "completed", "REFUNDED", ""} {
		t.Run(raw, func(t *testing.T) {
			v := NewVerifier(withStatus(raw), zap.NewNop(), nil)
			res, err := v.Verify(context.Background(), "PAY-1")
			require.NoError(t, err)
			assert.Equal(t, NotCompleted, res.Verdict)
			assert.Equal(t, raw, res.RawStatus)
		})
	}
}

func TestVerify_LookupFailureIsNotADecline(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	p := &MockProvider{LookupFunc: func(context.Context, string) (Lookup, error) {
		return Lookup{}, boom
	}}
	v := NewVerifier(p, zap.NewNop(), nil)

	_, err := v.Verify(context.Background(), "PAY-9")
	require.Error(t, err)
	assert.ErrorIs(t, err, orders.ErrPaymentLookup)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, orders.ErrPaymentNotCompleted)
}

func TestVerify_EmptyIDSkipsProvider(t *testing.T) {
	p := &MockProvider{}
	v := NewVerifier(p, zap.NewNop(), nil)

	_, err := v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, orders.ErrValidation)
	assert.Empty(t, p.Calls)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusVoided, ParseStatus("VOIDED"))
	assert.Equal(t, StatusUnrecognized, ParseStatus("PARTIALLY_REFUNDED"))
	assert.Equal(t, StatusUnrecognized, ParseStatus("Completed"))
	assert.Equal(t, "not_completed", VerdictFor(StatusUnrecognized).String())
}
