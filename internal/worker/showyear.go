package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/domain"
)

// reportedYear is the model year the fleet report cares about.
const reportedYear = 2024

// YearReporter is a second consumer role bound to the same exchange and
// routing key through its own queue: fan-out happens via multiple queues,
// not multiple consumers on one queue. It only logs.
type YearReporter struct {
	logger *slog.Logger
}

// NewYearReporter creates the reporter.
func NewYearReporter(logger *slog.Logger) *YearReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &YearReporter{logger: logger.With("component", "year-reporter")}
}

// HandleDelivery decodes and reports one raw delivery.
func (r *YearReporter) HandleDelivery(ctx context.Context, body []byte) broker.Outcome {
	var event domain.FleetCreationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		r.logger.Warn("dropping unparseable message", "error", err)
		return broker.OutcomeDropped
	}

	if strings.TrimSpace(event.Identifier) == "" {
		r.logger.Warn("received null or invalid event")
		return broker.OutcomeDropped
	}

	if event.Year == reportedYear {
		r.logger.Info("motocycle is from the reported year",
			"correlation_id", event.CorrelationID,
			"user_id", event.UserID,
			"identifier", event.Identifier,
			"year", event.Year,
		)
	}
	return broker.OutcomeProcessed
}
