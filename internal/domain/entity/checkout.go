package entity

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
)

// DefaultCurrency is applied when a checkout request omits the currency.
const DefaultCurrency = "USD"

// CheckoutRequest is a single storefront checkout submission. The
// orchestrator treats it as read-only.
type CheckoutRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	Customer       Customer        `json:"customer"`
	PaymentMethod  *PaymentMethod  `json:"paymentMethod,omitempty"`
	BillingAddress *BillingAddress `json:"billingAddress,omitempty"`
	Items          []CartItem      `json:"items"`
}

// CurrencyOrDefault returns the request currency, falling back to USD.
func (r *CheckoutRequest) CurrencyOrDefault() string {
	if r.Currency == "" {
		return DefaultCurrency
	}
	return r.Currency
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaymentMethod holds the raw card details typed by the shopper. It must never
// be logged as-is; its zap and fmt renderings are masked.
type PaymentMethod struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"cardHolderName"`
}

// Last4 returns the last four characters of the card number.
func (p *PaymentMethod) Last4() string {
	return LastFour(p.CardNumber)
}

func (p *PaymentMethod) String() string {
	return "card ****" + p.Last4()
}

// MarshalLogObject implements zapcore.ObjectMarshaler without the card number
// or the CVV.
func (p *PaymentMethod) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("last4", p.Last4())
	enc.AddString("card_holder_name", p.CardHolderName)
	enc.AddString("expiry_date", p.ExpiryDate)
	return nil
}

type BillingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// CartItem is one cart line as supplied by the storefront.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LastFour returns the trailing four characters of s, or s itself when it is
// shorter.
func LastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
