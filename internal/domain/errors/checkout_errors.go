package errors

import (
	"fmt"

	pkgerrors "github.com/lalofigo/web-store-mvp/pkg/errors"
)

// Kind classifies why a checkout did not produce an outcome.
type Kind string

const (
	KindInvalidAmount             Kind = "invalid_amount"
	KindInvalidCustomer           Kind = "invalid_customer"
	KindInvalidCard               Kind = "invalid_card"
	KindInvalidCvv                Kind = "invalid_cvv"
	KindInvalidCardholder         Kind = "invalid_cardholder"
	KindPaymentCreationFailed     Kind = "payment_creation_failed"
	KindPaymentConfirmationFailed Kind = "payment_confirmation_failed"
	KindInternal                  Kind = "internal_error"
)

type kindInfo struct {
	label   string
	message string
	code    string
}

var kinds = map[Kind]kindInfo{
	KindInvalidAmount:             {"Invalid amount", "Amount must be greater than 0", pkgerrors.ErrInvalidArgument},
	KindInvalidCustomer:           {"Invalid customer", "Customer email is required", pkgerrors.ErrInvalidArgument},
	KindInvalidCard:               {"Invalid card", "Card number is invalid", pkgerrors.ErrInvalidArgument},
	KindInvalidCvv:                {"Invalid CVV", "CVV is required", pkgerrors.ErrInvalidArgument},
	KindInvalidCardholder:         {"Invalid cardholder", "Cardholder name is required", pkgerrors.ErrInvalidArgument},
	KindPaymentCreationFailed:     {"Payment creation failed", "Failed to create payment in gateway", pkgerrors.ErrUpstream},
	KindPaymentConfirmationFailed: {"Payment confirmation failed", "Failed to confirm payment with gateway", pkgerrors.ErrUpstream},
	KindInternal:                  {"Internal server error", "An unexpected error occurred", pkgerrors.ErrInternal},
}

// Label is the short error title shown to the storefront.
func (k Kind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return kinds[KindInternal].label
}

// DefaultMessage is the human-readable message for the kind.
func (k Kind) DefaultMessage() string {
	if info, ok := kinds[k]; ok {
		return info.message
	}
	return kinds[KindInternal].message
}

// Code maps the kind onto a pkg/errors code.
func (k Kind) Code() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return pkgerrors.ErrInternal
}

// IsValidation reports whether the kind is raised before any gateway call.
func (k Kind) IsValidation() bool {
	return k.Code() == pkgerrors.ErrInvalidArgument
}

// CheckoutError is returned by the checkout orchestrator for every request that
// does not reach a terminal outcome. PaymentID is set once creation succeeded.
type CheckoutError struct {
	Kind      Kind
	Message   string
	PaymentID string
	Err       error
}

// NewCheckoutError builds an error of the given kind with its default message.
func NewCheckoutError(kind Kind, err error) *CheckoutError {
	return &CheckoutError{Kind: kind, Message: kind.DefaultMessage(), Err: err}
}

// WithPaymentID records the payment already created at the gateway.
func (e *CheckoutError) WithPaymentID(paymentID string) *CheckoutError {
	e.PaymentID = paymentID
	return e
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Code implements pkg/errors.Error.
func (e *CheckoutError) Code() string {
	return e.Kind.Code()
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status code the inbound API answers with.
func (e *CheckoutError) HTTPStatus() int {
	return pkgerrors.ToHTTPStatus(e.Code())
}

// KindOf returns the kind of the CheckoutError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ce *CheckoutError
	if pkgerrors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
