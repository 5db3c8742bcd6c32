package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/lalofigo/web-store-mvp/internal/adapter/handler/http"
	"github.com/lalofigo/web-store-mvp/internal/config"
	"github.com/lalofigo/web-store-mvp/pkg/logger"
	"go.uber.org/zap"
)

// Handlers are the route targets. Audit and Metrics are optional.
type Handlers struct {
	Checkout *handlers.CheckoutHandler
	Audit    *handlers.AuditHandler
	Metrics  http.Handler
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	handlers Handlers
}

func NewServer(cfg *config.Config, log *zap.Logger, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.HTTP.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		handlers: h,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	if s.handlers.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.handlers.Metrics))
	}

	api := s.echo.Group("/api")
	api.POST("/checkout", s.handlers.Checkout.ProcessCheckout)

	// Diagnostics, never exposed in production
	if s.handlers.Audit != nil && s.config.Service.Environment != "production" {
		internal := s.echo.Group("/internal")
		internal.GET("/checkout-audits/:paymentId", s.handlers.Audit.GetCheckoutAudits)
	}
}
