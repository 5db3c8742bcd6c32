package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lalofigo/web-store-mvp/internal/domain/repository"
	pkgerrors "github.com/lalofigo/web-store-mvp/pkg/errors"
	"go.uber.org/zap"
)

// AuditHandler exposes the checkout attempt log for diagnostics.
type AuditHandler struct {
	logger    *zap.Logger
	auditRepo repository.CheckoutAuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *zap.Logger, auditRepo repository.CheckoutAuditRepository) *AuditHandler {
	return &AuditHandler{
		logger:    logger,
		auditRepo: auditRepo,
	}
}

// GetCheckoutAudits handles GET /internal/checkout-audits/:paymentId. Failures
// are coded errors rendered by the server's error handler.
func (h *AuditHandler) GetCheckoutAudits(c echo.Context) error {
	paymentID := c.Param("paymentId")
	if paymentID == "" {
		return pkgerrors.NewAppError(pkgerrors.ErrInvalidArgument, "payment id is required", nil)
	}

	audits, err := h.auditRepo.GetByPaymentID(c.Request().Context(), paymentID)
	if err != nil {
		h.logger.Error("Failed to get checkout audits",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return pkgerrors.NewAppError(pkgerrors.ErrInternal, "Failed to get checkout audits", err)
	}

	if len(audits) == 0 {
		return pkgerrors.NewAppError(pkgerrors.ErrNotFound, "No audit records found", nil)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payment_id": paymentID,
		"audits":     audits,
	})
}
