package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutAudit is one checkout attempt as seen by the orchestrator. Only the
// last four card digits are kept.
type CheckoutAudit struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID     string          `gorm:"size:64;index" json:"request_id"`
	Provider      string          `gorm:"size:32;not null" json:"provider"`
	Stage         string          `gorm:"size:32;not null" json:"stage"`
	PaymentID     *string         `gorm:"size:100;index" json:"payment_id,omitempty"`
	TransactionID *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	Status        string          `gorm:"size:32;not null" json:"status"`
	ErrorKind     *string         `gorm:"size:64" json:"error_kind,omitempty"`
	Message       string          `json:"message"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Currency      string          `gorm:"size:3" json:"currency"`
	CustomerEmail string          `gorm:"size:320" json:"customer_email"`
	CardLast4     *string         `gorm:"size:4" json:"card_last4,omitempty"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CheckoutAudit) TableName() string {
	return "checkout_audits"
}
