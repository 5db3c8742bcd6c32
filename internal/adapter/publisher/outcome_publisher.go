package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/pkg/messaging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OutcomeEvent is the message published for every processed checkout. It
// carries no card data.
type OutcomeEvent struct {
	RequestID     string          `json:"request_id"`
	Provider      string          `json:"provider"`
	Stage         entity.Stage    `json:"stage"`
	Status        string          `json:"status"`
	Success       bool            `json:"success"`
	PaymentID     string          `json:"payment_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ErrorKind     string          `json:"error_kind,omitempty"`
	Message       string          `json:"message"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DurationMS    int64           `json:"duration_ms"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewOutcomeEvent builds the event for attempt.
func NewOutcomeEvent(attempt *entity.CheckoutAttempt) *OutcomeEvent {
	event := &OutcomeEvent{
		RequestID:  attempt.RequestID,
		Provider:   attempt.Provider,
		Stage:      attempt.Stage,
		PaymentID:  attempt.PaymentID,
		ErrorKind:  attempt.ErrorKind,
		Message:    attempt.Message,
		DurationMS: attempt.Duration.Milliseconds(),
		OccurredAt: attempt.OccurredAt,
		Status:     string(entity.OutcomeStatusFailed),
	}
	if outcome := attempt.Outcome; outcome != nil {
		event.Status = string(outcome.Status)
		event.Success = outcome.Success
		event.TransactionID = outcome.TransactionID
	}
	if req := attempt.Request; req != nil {
		event.Amount = req.Amount
		event.Currency = req.CurrencyOrDefault()
	}
	return event
}

// OutcomePublisher publishes checkout outcomes on a Redis channel.
type OutcomePublisher struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

func NewOutcomePublisher(client messaging.RedisClient, channel string, logger *zap.Logger) *OutcomePublisher {
	return &OutcomePublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// ObserveCheckout publishes attempt as an OutcomeEvent.
func (p *OutcomePublisher) ObserveCheckout(ctx context.Context, attempt *entity.CheckoutAttempt) error {
	event := NewOutcomeEvent(attempt)
	if err := p.client.Publish(ctx, p.channel, event); err != nil {
		return fmt.Errorf("failed to publish checkout outcome: %w", err)
	}

	p.logger.Debug("Checkout outcome published",
		zap.String("channel", p.channel),
		zap.String("request_id", event.RequestID),
		zap.String("stage", string(event.Stage)))
	return nil
}
