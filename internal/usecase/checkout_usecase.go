package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	domainErrors "github.com/lalofigo/web-store-mvp/internal/domain/errors"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	pkgerrors "github.com/lalofigo/web-store-mvp/pkg/errors"
	"go.uber.org/zap"
)

const (
	messagePaymentSucceeded = "Payment processed successfully"
	messagePaymentDeclined  = "Payment was declined"
)

// RedirectPaths are the storefront pages a finished checkout points to.
type RedirectPaths struct {
	SuccessPath string
	FailurePath string
}

// Success returns the success page URL carrying both identifiers.
func (p RedirectPaths) Success(paymentID, transactionID string) string {
	q := url.Values{}
	q.Set("payment_id", paymentID)
	q.Set("transaction_id", transactionID)
	return p.SuccessPath + "?" + q.Encode()
}

// Failure returns the failure page URL carrying the payment id.
func (p RedirectPaths) Failure(paymentID string) string {
	q := url.Values{}
	q.Set("payment_id", paymentID)
	return p.FailurePath + "?" + q.Encode()
}

// CheckoutObserver is notified once per processed checkout, after the result
// is final. Errors are logged and never change the result.
type CheckoutObserver interface {
	ObserveCheckout(ctx context.Context, attempt *entity.CheckoutAttempt) error
}

// CheckoutUsecase runs the create-then-confirm checkout sequence against a
// payment gateway. It keeps no state between calls.
type CheckoutUsecase struct {
	gateway   provider.PaymentGateway
	redirects RedirectPaths
	observers []CheckoutObserver
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewCheckoutUsecase(
	gateway provider.PaymentGateway,
	redirects RedirectPaths,
	observers []CheckoutObserver,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		gateway:   gateway,
		redirects: redirects,
		observers: observers,
		validate:  validator.New(),
		logger:    logger,
	}
}

// checkoutState is the per-call data threaded through the stages.
type checkoutState struct {
	req       *entity.CheckoutRequest
	stage     entity.Stage
	paymentID string
	confirmed *provider.ConfirmPaymentResponse
	logger    *zap.Logger
}

type checkoutStage struct {
	name entity.Stage
	run  func(ctx context.Context, st *checkoutState) *domainErrors.CheckoutError
}

func (u *CheckoutUsecase) stages() []checkoutStage {
	return []checkoutStage{
		{entity.StageValidating, u.validateStage},
		{entity.StageCreating, u.createStage},
		{entity.StageConfirming, u.confirmStage},
	}
}

// Process validates req, creates and confirms the payment, and maps the
// confirmation onto an outcome. Declined payments are outcomes, not errors.
// Any returned error is a *errors.CheckoutError.
//
// The gateway sequence is not cancellable: ctx cancellation is ignored once
// processing starts so that a created payment is always confirmed.
func (u *CheckoutUsecase) Process(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOutcome, error) {
	started := time.Now()
	ctx = context.WithoutCancel(ctx)

	requestID := entity.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = entity.ContextWithRequestID(ctx, requestID)
	}

	st := &checkoutState{
		req:    req,
		logger: u.logger.With(zap.String("request_id", requestID), zap.String("provider", u.gateway.GetProviderName())),
	}

	outcome, cerr := u.run(ctx, st)

	attempt := &entity.CheckoutAttempt{
		RequestID:  requestID,
		Provider:   u.gateway.GetProviderName(),
		Request:    req,
		PaymentID:  st.paymentID,
		Outcome:    outcome,
		Duration:   time.Since(started),
		OccurredAt: started.UTC(),
	}

	switch {
	case cerr != nil:
		attempt.Stage = entity.StageFailed
		attempt.FailedStage = st.stage
		attempt.ErrorKind = string(cerr.Kind)
		attempt.Message = cerr.Message
		if cerr.Kind.IsValidation() {
			st.logger.Warn("Checkout rejected", zap.String("error_kind", string(cerr.Kind)))
		} else {
			pkgerrors.LogError(st.logger, cerr, "Checkout failed",
				zap.String("stage", string(st.stage)),
				zap.String("payment_id", st.paymentID))
		}
	case outcome.Success:
		attempt.Stage = entity.StageSucceeded
		attempt.Message = outcome.Message
	default:
		attempt.Stage = entity.StageDeclined
		attempt.Message = outcome.Message
	}

	u.notify(ctx, st.logger, attempt)

	if cerr != nil {
		return nil, cerr
	}
	return outcome, nil
}

// run executes the stages in order and converts a panic into an internal
// error so callers never see it.
func (u *CheckoutUsecase) run(ctx context.Context, st *checkoutState) (outcome *entity.CheckoutOutcome, cerr *domainErrors.CheckoutError) {
	defer func() {
		if r := recover(); r != nil {
			st.logger.Error("Checkout panicked", zap.Any("panic", r), zap.Stack("stack"))
			outcome = nil
			cerr = domainErrors.NewCheckoutError(domainErrors.KindInternal, fmt.Errorf("panic: %v", r)).
				WithPaymentID(st.paymentID)
		}
	}()

	for _, stage := range u.stages() {
		st.stage = stage.name
		if cerr := stage.run(ctx, st); cerr != nil {
			return nil, cerr
		}
	}

	return u.settle(st), nil
}

func (u *CheckoutUsecase) validateStage(_ context.Context, st *checkoutState) *domainErrors.CheckoutError {
	return ValidateCheckoutRequest(st.req)
}

func (u *CheckoutUsecase) createStage(ctx context.Context, st *checkoutState) *domainErrors.CheckoutError {
	payload := BuildCreatePaymentRequest(st.req)

	st.logger.Info("Creating payment in gateway",
		zap.String("amount", st.req.Amount.String()),
		zap.String("currency", payload.Currency),
		zap.String("description", payload.Description),
		zap.String("customer_email", payload.Customer.Email),
		zap.Int("items", len(payload.Items)),
	)
	if payload.PaymentMethod != nil {
		st.logger.Debug("Payment method attached", zap.Object("payment_method", payload.PaymentMethod))
	}

	created, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		return gatewayFailure(domainErrors.KindPaymentCreationFailed, err)
	}

	if err := u.validate.Struct(created); err != nil {
		return domainErrors.NewCheckoutError(domainErrors.KindPaymentCreationFailed,
			fmt.Errorf("gateway returned no payment id: %w", err))
	}

	st.paymentID = created.Payment.ID
	st.logger.Info("Payment created", zap.String("payment_id", st.paymentID))
	return nil
}

func (u *CheckoutUsecase) confirmStage(ctx context.Context, st *checkoutState) *domainErrors.CheckoutError {
	st.logger.Info("Confirming payment with gateway", zap.String("payment_id", st.paymentID))

	confirmed, err := u.gateway.ConfirmPayment(ctx, st.paymentID)
	if err != nil {
		return gatewayFailure(domainErrors.KindPaymentConfirmationFailed, err).WithPaymentID(st.paymentID)
	}

	if confirmed == nil || confirmed.Payment == nil {
		return domainErrors.NewCheckoutError(domainErrors.KindInternal,
			errors.New("confirmation response has no payment")).WithPaymentID(st.paymentID)
	}

	if confirmed.Payment.Status == provider.PaymentStatusSucceeded && confirmed.Payment.TransactionID == "" {
		return domainErrors.NewCheckoutError(domainErrors.KindPaymentConfirmationFailed,
			errors.New("succeeded payment has no transaction id")).WithPaymentID(st.paymentID)
	}

	st.confirmed = confirmed
	st.logger.Info("Payment result",
		zap.String("payment_id", st.paymentID),
		zap.String("status", confirmed.Payment.Status),
		zap.String("bank_message", confirmed.BankMessage()),
	)
	return nil
}

// settle maps the confirmation onto the terminal outcome.
func (u *CheckoutUsecase) settle(st *checkoutState) *entity.CheckoutOutcome {
	payment := st.confirmed.Payment

	if payment.Status == provider.PaymentStatusSucceeded {
		return &entity.CheckoutOutcome{
			Success:       true,
			PaymentID:     st.paymentID,
			TransactionID: payment.TransactionID,
			Status:        entity.OutcomeStatusSucceeded,
			Message:       messagePaymentSucceeded,
			RedirectURL:   u.redirects.Success(st.paymentID, payment.TransactionID),
		}
	}

	message := st.confirmed.BankMessage()
	if message == "" {
		message = messagePaymentDeclined
	}

	return &entity.CheckoutOutcome{
		Success:     false,
		PaymentID:   st.paymentID,
		Status:      entity.OutcomeStatusFailed,
		Message:     message,
		RedirectURL: u.redirects.Failure(st.paymentID),
	}
}

// gatewayFailure keeps kind when the gateway rejected the call and reports
// everything else (transport, malformed body) as an internal error.
func gatewayFailure(kind domainErrors.Kind, err error) *domainErrors.CheckoutError {
	var perr *provider.ProviderError
	if errors.As(err, &perr) && perr.Rejected() {
		return domainErrors.NewCheckoutError(kind, err)
	}
	return domainErrors.NewCheckoutError(domainErrors.KindInternal, err)
}

func (u *CheckoutUsecase) notify(ctx context.Context, logger *zap.Logger, attempt *entity.CheckoutAttempt) {
	for _, observer := range u.observers {
		if err := observeSafely(ctx, observer, attempt); err != nil {
			pkgerrors.LogError(logger, err, "Checkout observer failed",
				zap.String("observer", fmt.Sprintf("%T", observer)))
		}
	}
}

func observeSafely(ctx context.Context, observer CheckoutObserver, attempt *entity.CheckoutAttempt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return observer.ObserveCheckout(ctx, attempt)
}
