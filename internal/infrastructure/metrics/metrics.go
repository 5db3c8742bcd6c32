package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/lalofigo/web-store-mvp/internal/domain/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// CheckoutMetrics collects checkout and gateway call metrics on its own
// registry.
type CheckoutMetrics struct {
	registry *prometheus.Registry

	Checkouts       *prometheus.CounterVec
	CheckoutLatency *prometheus.HistogramVec
	GatewayCalls    *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
}

func NewCheckoutMetrics(namespace string) *CheckoutMetrics {
	registry := prometheus.NewRegistry()

	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Total number of processed checkouts by terminal stage.",
	}, []string{"provider", "stage", "error_kind"})
	checkoutLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "duration_ms",
		Help:      "Checkout processing latency in milliseconds.",
		Buckets:   latencyBuckets,
	}, []string{"provider", "stage"})
	gatewayCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "calls_total",
		Help:      "Total number of payment gateway calls.",
	}, []string{"provider", "operation", "result"})
	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "call_duration_ms",
		Help:      "Payment gateway call latency in milliseconds.",
		Buckets:   latencyBuckets,
	}, []string{"provider", "operation"})

	registry.MustRegister(
		checkouts, checkoutLatency, gatewayCalls, gatewayLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &CheckoutMetrics{
		registry:        registry,
		Checkouts:       checkouts,
		CheckoutLatency: checkoutLatency,
		GatewayCalls:    gatewayCalls,
		GatewayLatency:  gatewayLatency,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *CheckoutMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCheckout counts a finished checkout.
func (m *CheckoutMetrics) ObserveCheckout(_ context.Context, attempt *entity.CheckoutAttempt) error {
	stage := string(attempt.Stage)
	m.Checkouts.WithLabelValues(attempt.Provider, stage, attempt.ErrorKind).Inc()
	m.CheckoutLatency.WithLabelValues(attempt.Provider, stage).Observe(float64(attempt.Duration.Milliseconds()))
	return nil
}

// InstrumentGateway wraps gw so every call is counted and timed.
func (m *CheckoutMetrics) InstrumentGateway(gw provider.PaymentGateway) provider.PaymentGateway {
	return &instrumentedGateway{next: gw, metrics: m}
}

type instrumentedGateway struct {
	next    provider.PaymentGateway
	metrics *CheckoutMetrics
}

func (g *instrumentedGateway) GetProviderName() string {
	return g.next.GetProviderName()
}

func (g *instrumentedGateway) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	start := time.Now()
	resp, err := g.next.CreatePayment(ctx, req)
	g.observe("create", start, err)
	return resp, err
}

func (g *instrumentedGateway) ConfirmPayment(ctx context.Context, paymentID string) (*provider.ConfirmPaymentResponse, error) {
	start := time.Now()
	resp, err := g.next.ConfirmPayment(ctx, paymentID)
	g.observe("confirm", start, err)
	return resp, err
}

func (g *instrumentedGateway) observe(operation string, start time.Time, err error) {
	name := g.next.GetProviderName()
	g.metrics.GatewayCalls.WithLabelValues(name, operation, callResult(err)).Inc()
	g.metrics.GatewayLatency.WithLabelValues(name, operation).Observe(float64(time.Since(start).Milliseconds()))
}

func callResult(err error) string {
	if err == nil {
		return "ok"
	}
	var perr *provider.ProviderError
	if errors.As(err, &perr) && perr.Rejected() {
		return "rejected"
	}
	return "error"
}
