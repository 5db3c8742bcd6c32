package provider

import (
	"context"
	"encoding/json"

	"go.uber.org/zap/zapcore"
)

// PaymentGateway is the two-call contract the checkout relies on: a payment is
// first created, then confirmed by its identifier.
type PaymentGateway interface {
	// CreatePayment registers a prospective payment and returns its identifier
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// ConfirmPayment finalizes the payment and returns its settlement status
	ConfirmPayment(ctx context.Context, paymentID string) (*ConfirmPaymentResponse, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// CreatePaymentRequest is the creation payload. Amount is a JSON number.
type CreatePaymentRequest struct {
	Amount         json.Number             `json:"amount"`
	Currency       string                  `json:"currency"`
	Description    string                  `json:"description"`
	Customer       Customer                `json:"customer"`
	PaymentMethod  *SanitizedPaymentMethod `json:"paymentMethod,omitempty"`
	BillingAddress *BillingAddress         `json:"billingAddress,omitempty"`
	Items          []Item                  `json:"items"`
}

type Customer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type BillingAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type Item struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// PaymentMethodTypeCreditCard is the type tag of card payment methods.
const PaymentMethodTypeCreditCard = "credit_card"

// SanitizedPaymentMethod is the payment method as sent to the gateway.
// OriginalCardNumber is forwarded once for the gateway's simulated bank
// decision and is excluded from logs.
type SanitizedPaymentMethod struct {
	Type               string `json:"type"`
	OriginalCardNumber string `json:"originalCardNumber"`
	CardHolderName     string `json:"cardHolderName"`
	Last4              string `json:"last4"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m *SanitizedPaymentMethod) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", m.Type)
	enc.AddString("card_holder_name", m.CardHolderName)
	enc.AddString("last4", m.Last4)
	return nil
}

func (m *SanitizedPaymentMethod) String() string {
	return m.Type + " ****" + m.Last4
}

// Payment is the gateway-owned payment record.
type Payment struct {
	ID            string `json:"id" validate:"required"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// CreatePaymentResponse is the creation response; Payment is nil when the
// gateway omitted it.
type CreatePaymentResponse struct {
	Payment *Payment `json:"payment" validate:"required"`
}

// ConfirmPaymentResponse is the confirmation response.
type ConfirmPaymentResponse struct {
	Payment      *Payment      `json:"payment"`
	BankResponse *BankResponse `json:"bank_response,omitempty"`
}

// BankMessage returns the bank's message, or "" when none was supplied.
func (r *ConfirmPaymentResponse) BankMessage() string {
	if r.BankResponse == nil {
		return ""
	}
	return r.BankResponse.Message
}

type BankResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// PaymentStatusSucceeded is the only confirmed status that approves a payment.
const PaymentStatusSucceeded = "succeeded"

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeGateway ProviderType = "gateway"
	ProviderTypeStripe  ProviderType = "stripe"
)

// Provider error codes. CodeGatewayRejected means the gateway answered with a
// non-success response; every other code is an unexpected failure.
const (
	CodeGatewayRejected = "GATEWAY_REJECTED"
	CodeMarshalError    = "MARSHAL_ERROR"
	CodeRequestError    = "REQUEST_ERROR"
	CodeAPIError        = "API_ERROR"
	CodeResponseError   = "RESPONSE_ERROR"
	CodeParseError      = "PARSE_ERROR"
)

// ProviderError is returned by PaymentGateway implementations.
type ProviderError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Rejected reports whether the gateway itself refused the call.
func (e *ProviderError) Rejected() bool {
	return e.Code == CodeGatewayRejected
}
