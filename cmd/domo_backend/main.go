package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/domohq/domo_backend/internal/adapters/database/memory"
	"github.com/domohq/domo_backend/internal/adapters/database/pgsql"
	"github.com/domohq/domo_backend/internal/adapters/events"
	"github.com/domohq/domo_backend/internal/core/domain"
	portsevents "github.com/domohq/domo_backend/internal/core/ports/events"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/core/services"
	"github.com/domohq/domo_backend/internal/handlers"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/domohq/domo_backend/internal/platform/config"
	"github.com/domohq/domo_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Domo Backend API
// @version 1.0
// @description Household ledger: accounts, credit cards, invoices, inventory and shopping list.

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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	container := services.NewServiceContainer(store,
		services.WithBillingLocation(cfg.BillingLocation),
		services.WithEventPublisher(publisher),
	)

	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(rateLimiter),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore builds the configured backend and seeds the dev household when asked to.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.Store, func(), error) {
	now := time.Now().UTC()
	household, member := devHousehold(cfg, now)

	switch cfg.DataBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		if household != nil {
			store.SeedHousehold(*household, *member)
			logger.Info("Seeded dev household", slog.String("household_id", household.HouseholdID))
		}
		logger.Warn("Using in-memory storage, data is lost on restart")
		return store, func() {}, nil

	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, nil, err
		}
		if cfg.RunMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				database.ClosePgxPool(pool)
				return nil, nil, err
			}
		}
		store := pgsql.NewStore(pool)
		if household != nil {
			if err := store.SeedHousehold(ctx, *household, *member); err != nil {
				database.ClosePgxPool(pool)
				return nil, nil, err
			}
			logger.Info("Seeded dev household", slog.String("household_id", household.HouseholdID))
		}
		return store, func() { database.ClosePgxPool(pool) }, nil
	}
}

func devHousehold(cfg *config.Config, now time.Time) (*domain.Household, *domain.Member) {
	if cfg.DevHouseholdID == "" {
		return nil, nil
	}
	h := &domain.Household{
		HouseholdID: cfg.DevHouseholdID,
		Name:        "Dev household",
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: cfg.DevUserID, LastUpdatedAt: now, LastUpdatedBy: cfg.DevUserID},
	}
	m := &domain.Member{HouseholdID: cfg.DevHouseholdID, UserID: cfg.DevUserID, Role: domain.RoleMaster, JoinedAt: now}
	return h, m
}

// openPublisher returns the AMQP publisher when a broker is configured and a log-only one otherwise.
func openPublisher(cfg *config.Config, logger *slog.Logger) (portsevents.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return events.LogPublisher{}, func() {}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Publishing ledger events", slog.String("exchange", cfg.AMQPExchange))
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Error("Failed to close AMQP publisher", slog.String("error", err.Error()))
		}
	}, nil
}
