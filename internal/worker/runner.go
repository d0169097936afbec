package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/metrics"
)

// resubscribeDelay spaces out reconnection attempts after a broker failure.
const resubscribeDelay = 5 * time.Second

// Runner keeps one consumer subscribed to its queue until the context is
// cancelled, resubscribing after broker failures.
type Runner struct {
	client   *broker.Client
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(client *broker.Client, recorder metrics.Recorder, logger *slog.Logger) *Runner {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		client:   client,
		recorder: recorder,
		logger:   logger.With("component", "worker-runner"),
	}
}

// Run consumes queue until ctx is cancelled. Each handled delivery is
// counted by outcome.
func (r *Runner) Run(ctx context.Context, exchange, routingKey, queue string, handler broker.Handler) error {
	counted := func(ctx context.Context, body []byte) broker.Outcome {
		outcome := handler(ctx, body)
		r.recorder.RecordWorkerOutcome(queue, outcome.String())
		return outcome
	}

	for {
		err := r.client.Subscribe(ctx, exchange, routingKey, queue, counted)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			r.logger.Error("subscription lost, resubscribing",
				"queue", queue,
				"delay", resubscribeDelay,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(resubscribeDelay):
		}
	}
}
