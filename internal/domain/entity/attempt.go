package entity

import (
	"context"
	"time"
)

// CheckoutAttempt describes one processed checkout for observers (metrics,
// audit, events). Request must be treated as read-only.
type CheckoutAttempt struct {
	RequestID string
	Provider  string
	Request   *CheckoutRequest
	// Stage is the terminal stage; FailedStage is where a failed attempt stopped.
	Stage       Stage
	FailedStage Stage
	PaymentID   string
	Outcome     *CheckoutOutcome
	ErrorKind   string
	Message     string
	Duration    time.Duration
	OccurredAt  time.Time
}

type requestIDKey struct{}

// ContextWithRequestID attaches the inbound request id to ctx.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
