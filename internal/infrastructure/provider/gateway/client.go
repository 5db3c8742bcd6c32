package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	createPaymentPath  = "/api/payments"
	confirmPaymentPath = "/api/payments/%s/confirm"

	// maxErrorBody caps how much of a rejected response is kept in Details.
	maxErrorBody = 1024
)

// Provider talks to the storefront payment gateway over HTTP/JSON.
type Provider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewProvider creates a gateway provider. apiKey is optional; when set it is
// sent as a bearer token.
func NewProvider(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetProviderName returns the provider name
func (p *Provider) GetProviderName() string {
	return string(provider.ProviderTypeGateway)
}

// CreatePayment registers the payment with the gateway
// POST /api/payments
func (p *Provider) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    provider.CodeMarshalError,
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	var result provider.CreatePaymentResponse
	if err := p.do(ctx, p.baseURL+createPaymentPath, jsonBody, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ConfirmPayment asks the gateway to settle a created payment
// POST /api/payments/{id}/confirm
func (p *Provider) ConfirmPayment(ctx context.Context, paymentID string) (*provider.ConfirmPaymentResponse, error) {
	endpoint := p.baseURL + fmt.Sprintf(confirmPaymentPath, url.PathEscape(paymentID))

	var result provider.ConfirmPaymentResponse
	if err := p.do(ctx, endpoint, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// do posts body to endpoint and decodes a 2xx JSON answer into out.
func (p *Provider) do(ctx context.Context, endpoint string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return &provider.ProviderError{
			Code:    provider.CodeRequestError,
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	requestID := entity.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	started := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("GatewayProvider: request failed",
			zap.String("url", endpoint),
			zap.Error(err))
		return &provider.ProviderError{
			Code:    provider.CodeAPIError,
			Message: "Payment gateway request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.ProviderError{
			Code:    provider.CodeResponseError,
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	p.logger.Debug("GatewayProvider: received response",
		zap.String("url", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("GatewayProvider: gateway rejected request",
			zap.String("url", endpoint),
			zap.Int("status_code", resp.StatusCode))

		return &provider.ProviderError{
			Code:       provider.CodeGatewayRejected,
			Message:    rejectionMessage(resp.StatusCode, respBody),
			Details:    truncate(string(respBody), maxErrorBody),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &provider.ProviderError{
			Code:       provider.CodeParseError,
			Message:    "Failed to parse response",
			Details:    err.Error(),
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}

// rejectionMessage prefers the gateway's own error text when the body is JSON.
func rejectionMessage(status int, body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return fmt.Sprintf("gateway responded with status %d", status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
