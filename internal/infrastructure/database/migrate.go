package database

import (
	"github.com/lalofigo/web-store-mvp/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the audit tables.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(&model.CheckoutAudit{}); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Declined and failed attempts are looked up far more often than approvals
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_checkout_audits_unsuccessful ON checkout_audits (created_at) WHERE status <> 'succeeded'`).Error; err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
