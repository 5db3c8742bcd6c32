package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewStripeProvider(Config{
		SecretKey:     "sk_test_123",
		PaymentMethod: "pm_card_visa",
		APIURL:        server.URL,
		Timeout:       5 * time.Second,
	}, zap.NewNop())
}

func TestStripeProvider_CreatePayment(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "4999", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "card", r.PostForm.Get("payment_method_types[0]"))
		assert.Equal(t, "4242", r.PostForm.Get("metadata[card_last4]"))
		assert.NotContains(t, r.PostForm.Encode(), "4242424242424242")

		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"requires_payment_method"}`))
	})

	resp, err := p.CreatePayment(context.Background(), &provider.CreatePaymentRequest{
		Amount:   json.Number("49.99"),
		Currency: "USD",
		Customer: provider.Customer{Email: "ada@example.com"},
		PaymentMethod: &provider.SanitizedPaymentMethod{
			Type:               provider.PaymentMethodTypeCreditCard,
			OriginalCardNumber: "4242424242424242",
			CardHolderName:     "Ada",
			Last4:              "4242",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", resp.Payment.ID)
	assert.Equal(t, "stripe", p.GetProviderName())
}

func TestStripeProvider_ConfirmPayment(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedStatus string
		expectedTx     string
		expectedBank   string
		expectedCode   string
	}{
		{
			name:           "succeeded",
			status:         http.StatusOK,
			body:           `{"id":"pi_1","object":"payment_intent","status":"succeeded","latest_charge":"ch_1"}`,
			expectedStatus: "succeeded",
			expectedTx:     "ch_1",
		},
		{
			name:           "card declined",
			status:         http.StatusPaymentRequired,
			body:           `{"error":{"type":"card_error","code":"card_declined","decline_code":"insufficient_funds","message":"Your card has insufficient funds."}}`,
			expectedStatus: "failed",
			expectedBank:   "Your card has insufficient funds.",
		},
		{
			name:         "invalid request",
			status:       http.StatusBadRequest,
			body:         `{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`,
			expectedCode: provider.CodeGatewayRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/payment_intents/pi_1/confirm", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "pm_card_visa", r.PostForm.Get("payment_method"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := p.ConfirmPayment(context.Background(), "pi_1")

			if tt.expectedCode != "" {
				var perr *provider.ProviderError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.expectedCode, perr.Code)
				assert.Equal(t, tt.status, perr.StatusCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.Payment.Status)
			assert.Equal(t, tt.expectedTx, resp.Payment.TransactionID)
			assert.Equal(t, tt.expectedBank, resp.BankMessage())
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	cents, err := toMinorUnits(json.Number("10.005"))
	require.NoError(t, err)
	assert.Equal(t, int64(1001), cents)

	_, err = toMinorUnits(json.Number("abc"))
	assert.Error(t, err)
}
