// Command fleet-worker runs the fleet event consumers: the materializer that
// persists motorcycles and the year reporter. Each has its own durable queue
// bound to the same exchange and routing key.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/clock"
	"github.com/joaopjk/moto-manager/internal/config"
	"github.com/joaopjk/moto-manager/internal/metrics"
	"github.com/joaopjk/moto-manager/internal/storage"
	"github.com/joaopjk/moto-manager/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fleet-worker exited", "error", err)
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
	logger.Info("starting fleet-worker",
		"exchange", cfg.Broker.Exchange,
		"routing_key", cfg.Broker.RoutingKey,
	)

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

	brasilia := clock.NewBrasilia()

	fleetRepo := storage.NewFleetRepository(db, brasilia)
	materializer := worker.NewMaterializer(fleetRepo, logger)
	reporter := worker.NewYearReporter(logger)

	client := broker.NewClient(cfg.Broker, logger)
	runner := worker.NewRunner(client, recorder, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(ctx, cfg.Broker.Exchange, cfg.Broker.RoutingKey, cfg.Broker.MaterializeQueue, materializer.HandleDelivery)
	})
	g.Go(func() error {
		return runner.Run(ctx, cfg.Broker.Exchange, cfg.Broker.RoutingKey, cfg.Broker.ShowYearQueue, reporter.HandleDelivery)
	})

	err = g.Wait()
	logger.Info("fleet-worker stopped")
	return err
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
