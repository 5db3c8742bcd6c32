package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/lalofigo/web-store-mvp/internal/adapter/handler/http"
	"github.com/lalofigo/web-store-mvp/internal/adapter/publisher"
	"github.com/lalofigo/web-store-mvp/internal/config"
	"github.com/lalofigo/web-store-mvp/internal/infrastructure/database"
	grpcServer "github.com/lalofigo/web-store-mvp/internal/infrastructure/grpc"
	httpServer "github.com/lalofigo/web-store-mvp/internal/infrastructure/http"
	"github.com/lalofigo/web-store-mvp/internal/infrastructure/metrics"
	"github.com/lalofigo/web-store-mvp/internal/infrastructure/provider"
	"github.com/lalofigo/web-store-mvp/internal/usecase"
	"github.com/lalofigo/web-store-mvp/pkg/logger"
	"github.com/lalofigo/web-store-mvp/pkg/messaging"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := cfg.Log
	logCfg.Service = cfg.Service.Name
	zapLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Payment gateway
	gateway, err := provider.NewFactory(&cfg.Gateway, zapLogger).GetProviderFromString(cfg.Gateway.Provider)
	if err != nil {
		zapLogger.Fatal("Failed to create payment gateway", zap.Error(err))
	}

	var (
		observers      []usecase.CheckoutObserver
		metricsHandler http.Handler
		auditHandler   *handlers.AuditHandler
	)

	if cfg.Metrics.Enabled {
		checkoutMetrics := metrics.NewCheckoutMetrics(cfg.Metrics.Namespace)
		gateway = checkoutMetrics.InstrumentGateway(gateway)
		observers = append(observers, checkoutMetrics)
		metricsHandler = checkoutMetrics.Handler()
	}

	// Optional audit trail
	if cfg.Database.Enabled {
		db, err := database.NewConnection(&cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}

		repos := database.NewRepositories(db, zapLogger)
		observers = append(observers, usecase.NewCheckoutAuditObserver(repos.CheckoutAudit, zapLogger))
		auditHandler = handlers.NewAuditHandler(zapLogger, repos.CheckoutAudit)
	}

	// Optional outcome events
	if cfg.Redis.Enabled {
		redisClient, err := messaging.NewRedisClient(ctx, cfg.Redis.Options)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		observers = append(observers, publisher.NewOutcomePublisher(redisClient, cfg.Redis.Channel, zapLogger))
	}

	checkoutUsecase := usecase.NewCheckoutUsecase(
		gateway,
		usecase.RedirectPaths{
			SuccessPath: cfg.Redirect.SuccessPath,
			FailurePath: cfg.Redirect.FailurePath,
		},
		observers,
		zapLogger.Named("checkout"),
	)

	// Initialize servers
	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Handlers{
		Checkout: handlers.NewCheckoutHandler(checkoutUsecase, zapLogger),
		Audit:    auditHandler,
		Metrics:  metricsHandler,
	})

	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled() {
		grpcSrv = grpcServer.NewServer(cfg, zapLogger)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	zapLogger.Info("Checkout service started",
		zap.String("provider", gateway.GetProviderName()),
		zap.Bool("audit", cfg.Database.Enabled),
		zap.Bool("events", cfg.Redis.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled))

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()

	if grpcSrv != nil {
		if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
		}
	}

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
