package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/spinzar/bigcapital/internal/core/services"
	"github.com/spinzar/bigcapital/internal/events"
	"github.com/spinzar/bigcapital/internal/handlers"
	"github.com/spinzar/bigcapital/internal/messaging/amqp"
	"github.com/spinzar/bigcapital/internal/middleware"
	"github.com/spinzar/bigcapital/internal/platform/config"
	"github.com/spinzar/bigcapital/internal/repositories/database/pgsql"
	"github.com/spinzar/bigcapital/pkg/database"
)

// @title Bigcapital Ledger API
// @version 1.0
// @description Expenses, manual journals and ledger reports over a double-entry journal.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return err
	}

	bus := events.NewBus()
	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), bus)

	// Only events the journal subscribers handled are forwarded.
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewPublisher(ctx, cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		bus.OnSuccess(publisher.Forward)
		logger.Info("Forwarding domain events", slog.String("exchange", cfg.AMQPExchange))
	}

	if cfg.SeedDefaultAccounts {
		created, err := container.Account.SeedDefaultAccounts(ctx)
		if err != nil {
			return err
		}
		logger.Info("Default accounts ensured", slog.Int("created", created))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
