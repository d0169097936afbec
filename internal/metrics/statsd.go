package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/joaopjk/moto-manager/internal/config"
)

// StatsdRecorder publishes counters through the DataDog StatsD client.
type StatsdRecorder struct {
	client statsd.ClientInterface
	logger *slog.Logger
}

// NewRecorder creates a StatsD-backed recorder from config.
// When metrics are disabled it returns Noop instead.
func NewRecorder(cfg config.MetricsConfig, logger *slog.Logger) (Recorder, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	addr := fmt.Sprintf("%s:%d", cfg.AgentHost, cfg.Port)
	client, err := statsd.New(addr,
		statsd.WithNamespace(cfg.Prefix+"."),
		statsd.WithTags(cfg.Tags),
	)
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}

	logger.Info("statsd recorder initialized", "address", addr, "prefix", cfg.Prefix)
	return &StatsdRecorder{client: client, logger: logger.With("component", "metrics")}, nil
}

func (r *StatsdRecorder) RecordCacheHit(tier string, latency time.Duration) {
	r.count("cache.hit", "tier:"+tier)
	r.timing("cache.latency", latency, "tier:"+tier)
}

func (r *StatsdRecorder) RecordCacheMiss(tier string, latency time.Duration) {
	r.count("cache.miss", "tier:"+tier)
	r.timing("cache.latency", latency, "tier:"+tier)
}

func (r *StatsdRecorder) RecordPublish(exchange string) {
	r.count("broker.publish", "exchange:"+exchange)
}

func (r *StatsdRecorder) RecordWorkerOutcome(queue, outcome string) {
	r.count("worker.message", "queue:"+queue, "outcome:"+outcome)
}

func (r *StatsdRecorder) count(name string, tags ...string) {
	if err := r.client.Incr(name, tags, 1); err != nil {
		r.logger.Debug("statsd incr failed", "metric", name, "error", err)
	}
}

func (r *StatsdRecorder) timing(name string, d time.Duration, tags ...string) {
	if err := r.client.Timing(name, d, tags, 1); err != nil {
		r.logger.Debug("statsd timing failed", "metric", name, "error", err)
	}
}

// Close flushes and closes the underlying client.
func (r *StatsdRecorder) Close() error {
	return r.client.Close()
}

var _ Recorder = (*StatsdRecorder)(nil)
