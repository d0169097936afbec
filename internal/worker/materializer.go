// Package worker contains the long-running consumers that turn fleet
// creation events into persisted state.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/domain"
)

// FleetWriter is the slice of the fleet repository the materializer needs.
// Lookups return (nil, nil) when no record matches.
type FleetWriter interface {
	GetMotocycleByPlate(ctx context.Context, plate string) (*domain.Motocycle, error)
	InsertMotocycle(ctx context.Context, moto *domain.Motocycle) error
}

// Materializer consumes fleet creation events and performs the actual
// motorcycle persistence, making fleet visibility eventually consistent.
type Materializer struct {
	fleet  FleetWriter
	logger *slog.Logger
}

// NewMaterializer creates the materializer.
func NewMaterializer(fleet FleetWriter, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		fleet:  fleet,
		logger: logger.With("component", "fleet-materializer"),
	}
}

// HandleDelivery decodes and processes one raw delivery. An unparseable
// body is poison: logged and dropped, never requeued.
func (m *Materializer) HandleDelivery(ctx context.Context, body []byte) broker.Outcome {
	var event domain.FleetCreationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		m.logger.Warn("dropping unparseable message", "error", err)
		return broker.OutcomeDropped
	}
	return m.Process(ctx, &event)
}

// Process applies one fleet creation event idempotently. The plate is the
// natural key: if a motorcycle with the same plate already exists the event
// is a duplicate delivery and is dropped, which is what makes at-least-once
// redelivery safe. Store faults return OutcomeRetry so the broker
// redelivers; everything else is handled here.
func (m *Materializer) Process(ctx context.Context, event *domain.FleetCreationEvent) broker.Outcome {
	if event == nil || strings.TrimSpace(event.Identifier) == "" {
		m.logger.Warn("received null or invalid event")
		return broker.OutcomeDropped
	}

	log := m.logger.With(
		"correlation_id", event.CorrelationID,
		"user_id", event.UserID,
		"identifier", event.Identifier,
	)

	existing, err := m.fleet.GetMotocycleByPlate(ctx, event.Plate)
	if err != nil {
		log.Error("plate lookup failed, requesting redelivery", "plate", event.Plate, "error", err)
		return broker.OutcomeRetry
	}
	if existing != nil {
		log.Warn("motocycle already exists, skipping write", "plate", event.Plate)
		return broker.OutcomeDropped
	}

	moto := &domain.Motocycle{
		Identifier: event.Identifier,
		Year:       event.Year,
		Model:      event.Model,
		Plate:      event.Plate,
		UserID:     event.UserID,
	}
	if err := m.fleet.InsertMotocycle(ctx, moto); err != nil {
		log.Error("motocycle insert failed, requesting redelivery", "error", err)
		return broker.OutcomeRetry
	}

	log.Info("motocycle registered")
	return broker.OutcomeProcessed
}
