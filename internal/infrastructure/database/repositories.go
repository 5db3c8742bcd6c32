package database

import (
	"github.com/lalofigo/web-store-mvp/internal/adapter/repository"
	domainRepo "github.com/lalofigo/web-store-mvp/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	CheckoutAudit domainRepo.CheckoutAuditRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		CheckoutAudit: repository.NewCheckoutAuditRepository(db, logger),
	}
}
