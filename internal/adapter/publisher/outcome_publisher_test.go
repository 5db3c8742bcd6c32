package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRedisClient is a mock implementation of messaging.RedisClient
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockRedisClient) Subscribe(ctx context.Context, channel string) (<-chan messaging.Message, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan messaging.Message), args.Error(1)
}

func (m *MockRedisClient) Close() error {
	return m.Called().Error(0)
}

func succeededAttempt() *entity.CheckoutAttempt {
	return &entity.CheckoutAttempt{
		RequestID: "req-1",
		Provider:  "gateway",
		Stage:     entity.StageSucceeded,
		PaymentID: "pay_1",
		Request: &entity.CheckoutRequest{
			Amount:   decimal.RequireFromString("10.00"),
			Customer: entity.Customer{Email: "ada@example.com"},
			PaymentMethod: &entity.PaymentMethod{
				CardNumber: "4242424242424242",
				CVV:        "123",
			},
		},
		Outcome: &entity.CheckoutOutcome{
			Success:       true,
			PaymentID:     "pay_1",
			TransactionID: "txn_1",
			Status:        entity.OutcomeStatusSucceeded,
		},
		Message:    "Payment processed successfully",
		Duration:   250 * time.Millisecond,
		OccurredAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOutcomePublisher_ObserveCheckout(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Publish", mock.Anything, "checkout.outcomes", mock.MatchedBy(func(e *OutcomeEvent) bool {
		return e.RequestID == "req-1" && e.Success && e.TransactionID == "txn_1"
	})).Return(nil)

	p := NewOutcomePublisher(client, "checkout.outcomes", zap.NewNop())
	require.NoError(t, p.ObserveCheckout(context.Background(), succeededAttempt()))
	client.AssertExpectations(t)
}

func TestOutcomePublisher_PublishError(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	p := NewOutcomePublisher(client, "checkout.outcomes", zap.NewNop())
	err := p.ObserveCheckout(context.Background(), succeededAttempt())
	assert.ErrorContains(t, err, "connection refused")
}

func TestOutcomeEvent_HasNoCardData(t *testing.T) {
	raw, err := json.Marshal(NewOutcomeEvent(succeededAttempt()))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "4242424242424242")
	assert.NotContains(t, string(raw), "cvv")
	assert.Contains(t, string(raw), `"amount":"10"`)
	assert.Contains(t, string(raw), `"currency":"USD"`)
	assert.Contains(t, string(raw), `"duration_ms":250`)
	assert.Contains(t, string(raw), `"status":"succeeded"`)
}
