package usecase

import (
	"unicode/utf8"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	domainErrors "github.com/lalofigo/web-store-mvp/internal/domain/errors"
)

const (
	minCardNumberLength = 13
	minCVVLength        = 3
)

// ValidateCheckoutRequest applies the local checks in order and returns the
// first failure. It never looks at anything the gateway would decide.
func ValidateCheckoutRequest(req *entity.CheckoutRequest) *domainErrors.CheckoutError {
	if req == nil || !req.Amount.IsPositive() {
		return domainErrors.NewCheckoutError(domainErrors.KindInvalidAmount, nil)
	}

	if req.Customer.Email == "" {
		return domainErrors.NewCheckoutError(domainErrors.KindInvalidCustomer, nil)
	}

	if pm := req.PaymentMethod; pm != nil {
		if utf8.RuneCountInString(pm.CardNumber) < minCardNumberLength {
			return domainErrors.NewCheckoutError(domainErrors.KindInvalidCard, nil)
		}
		if utf8.RuneCountInString(pm.CVV) < minCVVLength {
			return domainErrors.NewCheckoutError(domainErrors.KindInvalidCvv, nil)
		}
		if pm.CardHolderName == "" {
			return domainErrors.NewCheckoutError(domainErrors.KindInvalidCardholder, nil)
		}
	}

	return nil
}
