package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
)

// minorUnitExponent converts amounts to cents. Zero-decimal currencies are
// not supported.
const minorUnitExponent = 2

// Config holds the Stripe adapter settings.
type Config struct {
	SecretKey string
	// PaymentMethod is the payment method token used on confirm.
	PaymentMethod string
	// APIURL overrides the Stripe endpoint; empty means api.stripe.com.
	APIURL  string
	Timeout time.Duration
}

// StripeProvider implements provider.PaymentGateway on PaymentIntents
type StripeProvider struct {
	api           *client.API
	paymentMethod string
	logger        *zap.Logger
}

// NewStripeProvider creates a new Stripe provider
func NewStripeProvider(cfg Config, logger *zap.Logger) *StripeProvider {
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(strings.TrimRight(cfg.APIURL, "/"))
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}

	return &StripeProvider{
		api:           client.New(cfg.SecretKey, backends),
		paymentMethod: cfg.PaymentMethod,
		logger:        logger,
	}
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// CreatePayment creates an unconfirmed card PaymentIntent
func (s *StripeProvider) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	amount, err := toMinorUnits(req.Amount)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    provider.CodeMarshalError,
			Message: "Invalid amount",
			Details: err.Error(),
		}
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}
	if pm := req.PaymentMethod; pm != nil {
		params.AddMetadata("card_last4", pm.Last4)
		params.AddMetadata("card_holder_name", pm.CardHolderName)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		s.logger.Error("StripeProvider: PaymentIntent creation failed", zap.Error(err))
		return nil, providerError(err)
	}

	s.logger.Info("StripeProvider: PaymentIntent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)))

	return &provider.CreatePaymentResponse{
		Payment: &provider.Payment{
			ID:     pi.ID,
			Status: string(pi.Status),
		},
	}, nil
}

// ConfirmPayment confirms the PaymentIntent with the configured payment
// method. A card decline is reported as a failed payment, not an error.
func (s *StripeProvider) ConfirmPayment(ctx context.Context, paymentID string) (*provider.ConfirmPaymentResponse, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(s.paymentMethod),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Confirm(paymentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			s.logger.Info("StripeProvider: card declined",
				zap.String("payment_intent_id", paymentID),
				zap.String("decline_code", string(stripeErr.DeclineCode)))

			return &provider.ConfirmPaymentResponse{
				Payment: &provider.Payment{ID: paymentID, Status: "failed"},
				BankResponse: &provider.BankResponse{
					Code:    string(stripeErr.Code),
					Message: stripeErr.Msg,
				},
			}, nil
		}

		s.logger.Error("StripeProvider: PaymentIntent confirmation failed",
			zap.String("payment_intent_id", paymentID),
			zap.Error(err))
		return nil, providerError(err)
	}

	payment := &provider.Payment{ID: pi.ID, Status: string(pi.Status)}
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		payment.TransactionID = pi.ID
		if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
			payment.TransactionID = pi.LatestCharge.ID
		}
	}

	resp := &provider.ConfirmPaymentResponse{Payment: payment}
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		resp.BankResponse = &provider.BankResponse{
			Code:    string(pi.LastPaymentError.Code),
			Message: pi.LastPaymentError.Msg,
		}
	}

	return resp, nil
}

// providerError maps Stripe API errors onto gateway rejections and
// everything else (network, decoding) onto API_ERROR.
func providerError(err error) *provider.ProviderError {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode > 0 {
		return &provider.ProviderError{
			Code:       provider.CodeGatewayRejected,
			Message:    stripeErr.Msg,
			Details:    string(stripeErr.Type),
			StatusCode: stripeErr.HTTPStatusCode,
		}
	}
	return &provider.ProviderError{
		Code:    provider.CodeAPIError,
		Message: "Stripe API request failed",
		Details: err.Error(),
	}
}

func toMinorUnits(amount json.Number) (int64, error) {
	d, err := decimal.NewFromString(amount.String())
	if err != nil {
		return 0, err
	}
	return d.Shift(minorUnitExponent).Round(0).IntPart(), nil
}
