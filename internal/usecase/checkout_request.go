package usecase

import (
	"encoding/json"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
)

// SanitizePaymentMethod builds the gateway form of a card: type tag, holder
// name and last four digits. The full number rides along only in
// OriginalCardNumber for the single creation call. CVV and expiry are dropped.
func SanitizePaymentMethod(pm *entity.PaymentMethod) *provider.SanitizedPaymentMethod {
	if pm == nil {
		return nil
	}
	return &provider.SanitizedPaymentMethod{
		Type:               provider.PaymentMethodTypeCreditCard,
		OriginalCardNumber: pm.CardNumber,
		CardHolderName:     pm.CardHolderName,
		Last4:              pm.Last4(),
	}
}

// BuildCreatePaymentRequest maps a validated checkout request onto the
// gateway creation payload.
func BuildCreatePaymentRequest(req *entity.CheckoutRequest) *provider.CreatePaymentRequest {
	out := &provider.CreatePaymentRequest{
		Amount:      json.Number(req.Amount.String()),
		Currency:    req.CurrencyOrDefault(),
		Description: req.Description,
		Customer: provider.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
		},
		PaymentMethod: SanitizePaymentMethod(req.PaymentMethod),
		Items:         make([]provider.Item, 0, len(req.Items)),
	}

	if addr := req.BillingAddress; addr != nil {
		out.BillingAddress = &provider.BillingAddress{
			Street:  addr.Street,
			City:    addr.City,
			ZipCode: addr.ZipCode,
			Country: addr.Country,
		}
	}

	for _, item := range req.Items {
		out.Items = append(out.Items, provider.Item{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}

	return out
}
