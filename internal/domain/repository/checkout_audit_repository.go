package repository

import (
	"context"

	"github.com/lalofigo/web-store-mvp/internal/domain/model"
)

// CheckoutAuditRepository stores checkout attempts for diagnostics.
type CheckoutAuditRepository interface {
	Record(ctx context.Context, audit *model.CheckoutAudit) error
	GetByPaymentID(ctx context.Context, paymentID string) ([]*model.CheckoutAudit, error)
}
