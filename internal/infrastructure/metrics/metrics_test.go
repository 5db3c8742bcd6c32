package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	createErr  error
	confirmErr error
}

func (s *stubGateway) GetProviderName() string { return "stub" }

func (s *stubGateway) CreatePayment(context.Context, *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &provider.CreatePaymentResponse{Payment: &provider.Payment{ID: "pay_1"}}, nil
}

func (s *stubGateway) ConfirmPayment(context.Context, string) (*provider.ConfirmPaymentResponse, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &provider.ConfirmPaymentResponse{Payment: &provider.Payment{ID: "pay_1", Status: "succeeded"}}, nil
}

func TestCheckoutMetrics_ObserveCheckout(t *testing.T) {
	m := NewCheckoutMetrics("test")

	require.NoError(t, m.ObserveCheckout(context.Background(), &entity.CheckoutAttempt{
		Provider: "gateway",
		Stage:    entity.StageSucceeded,
		Duration: 120 * time.Millisecond,
	}))
	require.NoError(t, m.ObserveCheckout(context.Background(), &entity.CheckoutAttempt{
		Provider:  "gateway",
		Stage:     entity.StageFailed,
		ErrorKind: "invalid_card",
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("gateway", "succeeded", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("gateway", "failed", "invalid_card")))
}

func TestCheckoutMetrics_InstrumentGateway(t *testing.T) {
	m := NewCheckoutMetrics("test")
	gw := m.InstrumentGateway(&stubGateway{
		confirmErr: &provider.ProviderError{Code: provider.CodeGatewayRejected},
	})

	assert.Equal(t, "stub", gw.GetProviderName())

	_, err := gw.CreatePayment(context.Background(), &provider.CreatePaymentRequest{})
	require.NoError(t, err)
	_, err = gw.ConfirmPayment(context.Background(), "pay_1")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("stub", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayCalls.WithLabelValues("stub", "confirm", "rejected")))
	assert.Equal(t, "error", callResult(errors.New("dial tcp")))
}

func TestCheckoutMetrics_Handler(t *testing.T) {
	m := NewCheckoutMetrics("test")
	m.Checkouts.WithLabelValues("gateway", "declined", "").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `test_checkout_attempts_total{error_kind="",provider="gateway",stage="declined"} 1`)
}
