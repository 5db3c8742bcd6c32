package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	domainErrors "github.com/lalofigo/web-store-mvp/internal/domain/errors"
	"go.uber.org/zap"
)

// CheckoutProcessor runs one checkout.
type CheckoutProcessor interface {
	Process(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOutcome, error)
}

// ErrorResponse is the body of every non-200 checkout answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id,omitempty"`
}

type CheckoutHandler struct {
	checkout CheckoutProcessor
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutProcessor, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// ProcessCheckout handles POST /api/checkout. Approved and declined payments
// both answer 200; the success flag tells them apart.
func (h *CheckoutHandler) ProcessCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		ctx = entity.ContextWithRequestID(ctx, requestID)
	}

	var req entity.CheckoutRequest
	if err := bindCheckoutRequest(c, &req); err != nil {
		h.logger.Error("Failed to decode checkout request", zap.Error(err))
		return h.writeError(c, domainErrors.NewCheckoutError(domainErrors.KindInternal, err))
	}

	outcome, err := h.checkout.Process(ctx, &req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, outcome)
}

// bindCheckoutRequest reads the body as JSON when no Content-Type is sent.
func bindCheckoutRequest(c echo.Context, req *entity.CheckoutRequest) error {
	if c.Request().Header.Get(echo.HeaderContentType) != "" {
		return c.Bind(req)
	}
	if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func (h *CheckoutHandler) writeError(c echo.Context, err error) error {
	cerr, ok := err.(*domainErrors.CheckoutError)
	if !ok {
		cerr = domainErrors.NewCheckoutError(domainErrors.KindOf(err), err)
	}

	return c.JSON(cerr.HTTPStatus(), ErrorResponse{
		Error:     cerr.Kind.Label(),
		Message:   cerr.Message,
		PaymentID: cerr.PaymentID,
	})
}
