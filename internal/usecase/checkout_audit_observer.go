package usecase

import (
	"context"
	"fmt"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/internal/domain/model"
	"github.com/lalofigo/web-store-mvp/internal/domain/repository"
	"go.uber.org/zap"
)

// CheckoutAuditObserver writes every checkout attempt to the audit repository.
type CheckoutAuditObserver struct {
	repo   repository.CheckoutAuditRepository
	logger *zap.Logger
}

func NewCheckoutAuditObserver(repo repository.CheckoutAuditRepository, logger *zap.Logger) *CheckoutAuditObserver {
	return &CheckoutAuditObserver{repo: repo, logger: logger}
}

func (o *CheckoutAuditObserver) ObserveCheckout(ctx context.Context, attempt *entity.CheckoutAttempt) error {
	audit := NewCheckoutAudit(attempt)
	if err := o.repo.Record(ctx, audit); err != nil {
		return fmt.Errorf("failed to record checkout audit: %w", err)
	}

	o.logger.Debug("Checkout audit recorded",
		zap.Int64("audit_id", audit.ID),
		zap.String("request_id", audit.RequestID))
	return nil
}

// NewCheckoutAudit flattens an attempt into its audit row. The card number
// is reduced to its last four digits.
func NewCheckoutAudit(attempt *entity.CheckoutAttempt) *model.CheckoutAudit {
	audit := &model.CheckoutAudit{
		RequestID: attempt.RequestID,
		Provider:  attempt.Provider,
		Stage:     string(attempt.Stage),
		Message:   attempt.Message,
		CreatedAt: attempt.OccurredAt,
	}

	if attempt.Stage == entity.StageFailed {
		audit.Stage = string(attempt.FailedStage)
		audit.Status = string(entity.StageFailed)
		audit.ErrorKind = stringPtr(attempt.ErrorKind)
	}

	if req := attempt.Request; req != nil {
		audit.Amount = req.Amount
		audit.Currency = req.CurrencyOrDefault()
		audit.CustomerEmail = req.Customer.Email
		audit.ItemCount = len(req.Items)
		if req.PaymentMethod != nil {
			audit.CardLast4 = stringPtr(req.PaymentMethod.Last4())
		}
	}

	audit.PaymentID = stringPtr(attempt.PaymentID)
	if outcome := attempt.Outcome; outcome != nil {
		audit.Status = string(outcome.Status)
		audit.TransactionID = stringPtr(outcome.TransactionID)
	}

	return audit
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
