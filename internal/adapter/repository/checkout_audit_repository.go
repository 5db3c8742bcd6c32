package repository

import (
	"context"
	"fmt"

	"github.com/lalofigo/web-store-mvp/internal/domain/model"
	"github.com/lalofigo/web-store-mvp/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type checkoutAuditRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCheckoutAuditRepository creates a new checkout audit repository
func NewCheckoutAuditRepository(db *gorm.DB, logger *zap.Logger) repository.CheckoutAuditRepository {
	return &checkoutAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts one audit row. Rows are append-only.
func (r *checkoutAuditRepository) Record(ctx context.Context, audit *model.CheckoutAudit) error {
	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		r.logger.Error("Failed to record checkout audit",
			zap.String("request_id", audit.RequestID),
			zap.String("stage", audit.Stage),
			zap.Error(err))
		return fmt.Errorf("failed to record checkout audit: %w", err)
	}
	return nil
}

// GetByPaymentID returns every audit row of a payment, oldest first.
func (r *checkoutAuditRepository) GetByPaymentID(ctx context.Context, paymentID string) ([]*model.CheckoutAudit, error) {
	var audits []*model.CheckoutAudit
	err := r.db.WithContext(ctx).
		Scopes(byPaymentID(paymentID)).
		Find(&audits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout audits: %w", err)
	}
	return audits, nil
}

func byPaymentID(paymentID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("payment_id = ?", paymentID).Order("created_at ASC, id ASC")
	}
}
