package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	domainErrors "github.com/lalofigo/web-store-mvp/internal/domain/errors"
	"github.com/lalofigo/web-store-mvp/internal/domain/model"
	"github.com/lalofigo/web-store-mvp/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCheckoutProcessor struct {
	mock.Mock
}

func (m *MockCheckoutProcessor) Process(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckoutOutcome), args.Error(1)
}

const checkoutBody = `{
	"amount": 49.99,
	"currency": "USD",
	"customer": {"name": "Ada", "email": "ada@example.com"},
	"paymentMethod": {"cardNumber": "4242424242424242", "expiryDate": "12/30", "cvv": "123", "cardHolderName": "Ada"},
	"items": [{"id": 1, "name": "Notebook", "price": 49.99, "quantity": 1}]
}`

func serveCheckout(t *testing.T, processor CheckoutProcessor, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	e.Use(middleware.RequestID())
	e.POST("/api/checkout", NewCheckoutHandler(processor, zap.NewNop()).ProcessCheckout)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestCheckoutHandler_ProcessCheckout(t *testing.T) {
	tests := []struct {
		name           string
		outcome        *entity.CheckoutOutcome
		err            error
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "approved",
			outcome: &entity.CheckoutOutcome{
				Success:       true,
				PaymentID:     "pay_1",
				TransactionID: "txn_9",
				Status:        entity.OutcomeStatusSucceeded,
				Message:       "Payment processed successfully",
				RedirectURL:   "/success?payment_id=pay_1&transaction_id=txn_9",
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success":        true,
				"payment_id":     "pay_1",
				"transaction_id": "txn_9",
				"status":         "succeeded",
				"message":        "Payment processed successfully",
				"redirect_url":   "/success?payment_id=pay_1&transaction_id=txn_9",
			},
		},
		{
			name: "declined",
			outcome: &entity.CheckoutOutcome{
				PaymentID:   "pay_1",
				Status:      entity.OutcomeStatusFailed,
				Message:     "Card declined",
				RedirectURL: "/failed?payment_id=pay_1",
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"success":      false,
				"payment_id":   "pay_1",
				"status":       "failed",
				"message":      "Card declined",
				"redirect_url": "/failed?payment_id=pay_1",
			},
		},
		{
			name:           "validation error",
			err:            domainErrors.NewCheckoutError(domainErrors.KindInvalidCvv, nil),
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"error":   "Invalid CVV",
				"message": "CVV is required",
			},
		},
		{
			name:           "creation failed",
			err:            domainErrors.NewCheckoutError(domainErrors.KindPaymentCreationFailed, errors.New("402")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody: map[string]interface{}{
				"error":   "Payment creation failed",
				"message": "Failed to create payment in gateway",
			},
		},
		{
			name:           "confirmation failed keeps payment id",
			err:            domainErrors.NewCheckoutError(domainErrors.KindPaymentConfirmationFailed, errors.New("500")).WithPaymentID("pay_1"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody: map[string]interface{}{
				"error":      "Payment confirmation failed",
				"message":    "Failed to confirm payment with gateway",
				"payment_id": "pay_1",
			},
		},
		{
			name:           "unexpected error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody: map[string]interface{}{
				"error":   "Internal server error",
				"message": "An unexpected error occurred",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := new(MockCheckoutProcessor)
			if tt.outcome != nil {
				processor.On("Process", mock.Anything, mock.Anything).Return(tt.outcome, nil)
			} else {
				processor.On("Process", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec, body := serveCheckout(t, processor, checkoutBody)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, body)
		})
	}
}

func TestCheckoutHandler_PassesRequest(t *testing.T) {
	processor := new(MockCheckoutProcessor)
	processor.On("Process", mock.MatchedBy(func(ctx context.Context) bool {
		return entity.RequestIDFromContext(ctx) != ""
	}), mock.MatchedBy(func(req *entity.CheckoutRequest) bool {
		return req.Amount.String() == "49.99" &&
			req.Customer.Email == "ada@example.com" &&
			req.PaymentMethod.CVV == "123" &&
			len(req.Items) == 1
	})).Return(&entity.CheckoutOutcome{Success: true}, nil)

	rec, _ := serveCheckout(t, processor, checkoutBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	processor.AssertExpectations(t)
}

func TestCheckoutHandler_MalformedBody(t *testing.T) {
	processor := new(MockCheckoutProcessor)

	rec, body := serveCheckout(t, processor, `{"amount": "abc",`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
	processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_BodyWithoutContentType(t *testing.T) {
	processor := new(MockCheckoutProcessor)
	processor.On("Process", mock.Anything, mock.MatchedBy(func(req *entity.CheckoutRequest) bool {
		return req.Customer.Email == "ada@example.com" && req.PaymentMethod != nil
	})).Return(&entity.CheckoutOutcome{Success: true, PaymentID: "pay_1", TransactionID: "txn_9"}, nil)

	e := echo.New()
	e.POST("/api/checkout", NewCheckoutHandler(processor, zap.NewNop()).ProcessCheckout)

	for _, body := range []string{checkoutBody, `{"amount": "abc",`} {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if body == checkoutBody {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"payment_id":"pay_1"`)
		} else {
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		}
	}
	processor.AssertNumberOfCalls(t, "Process", 1)
}

type MockCheckoutAuditRepository struct {
	mock.Mock
}

func (m *MockCheckoutAuditRepository) Record(ctx context.Context, audit *model.CheckoutAudit) error {
	return m.Called(ctx, audit).Error(0)
}

func (m *MockCheckoutAuditRepository) GetByPaymentID(ctx context.Context, paymentID string) ([]*model.CheckoutAudit, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CheckoutAudit), args.Error(1)
}

func TestAuditHandler_GetCheckoutAudits(t *testing.T) {
	repo := new(MockCheckoutAuditRepository)
	repo.On("GetByPaymentID", mock.Anything, "pay_1").
		Return([]*model.CheckoutAudit{{ID: 1, RequestID: "req-1", Stage: "succeeded", Status: "succeeded"}}, nil)
	repo.On("GetByPaymentID", mock.Anything, "pay_2").Return([]*model.CheckoutAudit{}, nil)
	repo.On("GetByPaymentID", mock.Anything, "pay_3").Return(nil, errors.New("db down"))

	e := echo.New()
	logger.WithEchoLogger(e, zap.NewNop())
	e.GET("/internal/checkout-audits/:paymentId", NewAuditHandler(zap.NewNop(), repo).GetCheckoutAudits)

	tests := []struct {
		paymentID string
		status    int
		message   string
	}{
		{"pay_1", http.StatusOK, ""},
		{"pay_2", http.StatusNotFound, "No audit records found"},
		{"pay_3", http.StatusInternalServerError, "Failed to get checkout audits"},
	}

	for _, tt := range tests {
		t.Run(tt.paymentID, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/checkout-audits/"+tt.paymentID, nil))
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.paymentID, body["payment_id"])
				assert.Len(t, body["audits"], 1)
				return
			}
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}
