package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlers "github.com/lalofigo/web-store-mvp/internal/adapter/handler/http"
	"github.com/lalofigo/web-store-mvp/internal/config"
	"github.com/lalofigo/web-store-mvp/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedProcessor struct {
	outcome *entity.CheckoutOutcome
}

func (p fixedProcessor) Process(context.Context, *entity.CheckoutRequest) (*entity.CheckoutOutcome, error) {
	return p.outcome, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Service.Name = "checkout"
	cfg.Service.Environment = "test"
	cfg.Server.HTTP.AllowOrigins = []string{"http://localhost:3000"}
	return cfg
}

func newTestServer() *Server {
	checkout := handlers.NewCheckoutHandler(fixedProcessor{outcome: &entity.CheckoutOutcome{
		Success:   true,
		PaymentID: "pay_1",
	}}, zap.NewNop())

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	return NewServer(testConfig(), zap.NewNop(), Handlers{Checkout: checkout, Metrics: metrics})
}

func TestServer_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "checkout", body["service"])
}

func TestServer_Checkout(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"amount": 1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	newTestServer().Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Body.String(), `"payment_id":"pay_1"`)
}

func TestServer_MetricsAndUnknownRoutes(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/checkout-audits/pay_1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Not Found"`)
}
