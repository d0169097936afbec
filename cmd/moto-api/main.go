// Command moto-api serves the motorcycle rental management HTTP API.
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

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/cache"
	"github.com/joaopjk/moto-manager/internal/clock"
	"github.com/joaopjk/moto-manager/internal/config"
	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/metrics"
	"github.com/joaopjk/moto-manager/internal/service"
	"github.com/joaopjk/moto-manager/internal/storage"
	transport "github.com/joaopjk/moto-manager/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("moto-api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting moto-api", "http_address", cfg.Service.HTTPAddress)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}

	recorder, err := metrics.NewRecorder(cfg.Metrics, logger)
	if err != nil {
		return err
	}
	if closer, ok := recorder.(*metrics.StatsdRecorder); ok {
		defer closer.Close()
	}

	memory, err := cache.NewMemoryTier(cfg.Memory, logger)
	if err != nil {
		return err
	}
	defer memory.Close()

	redisTier := cache.NewRedisTier(cfg.Redis, logger)
	defer redisTier.Close()
	if err := redisTier.Ping(ctx); err != nil {
		logger.Warn("redis unreachable at startup", "error", err)
	}
	planCache := cache.NewDegradingCache(memory, redisTier, recorder, logger)

	brasilia := clock.NewBrasilia()

	fleetRepo := storage.NewFleetRepository(db, brasilia)
	partnerRepo := storage.NewPartnerRepository(db, brasilia)
	rentalRepo := storage.NewRentalRepository(db, brasilia)
	planRepo := storage.NewPlanRepository(db)

	if err := planRepo.EnsureDefaultPlans(ctx, domain.DefaultRentalPlans()); err != nil {
		return err
	}

	client := broker.NewClient(cfg.Broker, logger)
	publisher := broker.NewFleetEventPublisher(client, cfg.Broker, recorder)

	pricing := service.NewPricingService(planRepo, planCache)
	fleet := service.NewFleetService(fleetRepo, publisher, logger)
	partners := service.NewPartnerService(partnerRepo, logger)
	rentals := service.NewRentalService(rentalRepo, fleetRepo, partnerRepo, pricing, brasilia, logger)

	server := &http.Server{
		Addr:    cfg.Service.HTTPAddress,
		Handler: transport.NewRouter(fleet, partners, rentals, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
