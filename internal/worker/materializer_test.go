package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/domain"
)

type fakeFleetWriter struct {
	byPlate   map[string]*domain.Motocycle
	inserted  []*domain.Motocycle
	lookupErr error
	insertErr error
}

func newFakeFleetWriter() *fakeFleetWriter {
	return &fakeFleetWriter{byPlate: make(map[string]*domain.Motocycle)}
}

func (f *fakeFleetWriter) GetMotocycleByPlate(ctx context.Context, plate string) (*domain.Motocycle, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byPlate[plate], nil
}

func (f *fakeFleetWriter) InsertMotocycle(ctx context.Context, moto *domain.Motocycle) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, moto)
	f.byPlate[moto.Plate] = moto
	return nil
}

func testEvent() *domain.FleetCreationEvent {
	return &domain.FleetCreationEvent{
		CorrelationID: "corr-1",
		UserID:        "user-1",
		Identifier:    "moto-1",
		Year:          2024,
		Model:         "Honda CG 160",
		Plate:         "ABC1234",
	}
}

// TestMaterializerProcess tests event application and idempotency.
func TestMaterializerProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a new motorcycle", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		m := NewMaterializer(fleet, nil)

		if outcome := m.Process(ctx, testEvent()); outcome != broker.OutcomeProcessed {
			t.Errorf("expected processed, got %s", outcome)
		}
		if len(fleet.inserted) != 1 {
			t.Fatalf("expected 1 insert, got %d", len(fleet.inserted))
		}
		if fleet.inserted[0].Plate != "ABC1234" {
			t.Errorf("unexpected motorcycle: %+v", fleet.inserted[0])
		}
	})

	t.Run("duplicate delivery writes once", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		m := NewMaterializer(fleet, nil)

		if outcome := m.Process(ctx, testEvent()); outcome != broker.OutcomeProcessed {
			t.Fatalf("first delivery: expected processed, got %s", outcome)
		}
		if outcome := m.Process(ctx, testEvent()); outcome != broker.OutcomeDropped {
			t.Errorf("redelivery: expected dropped, got %s", outcome)
		}
		if len(fleet.inserted) != 1 {
			t.Errorf("expected exactly 1 insert, got %d", len(fleet.inserted))
		}
	})

	t.Run("drops nil and blank events", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		m := NewMaterializer(fleet, nil)

		if outcome := m.Process(ctx, nil); outcome != broker.OutcomeDropped {
			t.Errorf("nil event: expected dropped, got %s", outcome)
		}

		event := testEvent()
		event.Identifier = "   "
		if outcome := m.Process(ctx, event); outcome != broker.OutcomeDropped {
			t.Errorf("blank identifier: expected dropped, got %s", outcome)
		}
		if len(fleet.inserted) != 0 {
			t.Errorf("expected no inserts, got %d", len(fleet.inserted))
		}
	})

	t.Run("lookup fault requests redelivery", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		fleet.lookupErr = errors.New("db down")
		m := NewMaterializer(fleet, nil)

		if outcome := m.Process(ctx, testEvent()); outcome != broker.OutcomeRetry {
			t.Errorf("expected retry, got %s", outcome)
		}
	})

	t.Run("insert fault requests redelivery", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		fleet.insertErr = errors.New("db down")
		m := NewMaterializer(fleet, nil)

		if outcome := m.Process(ctx, testEvent()); outcome != broker.OutcomeRetry {
			t.Errorf("expected retry, got %s", outcome)
		}
	})
}

// TestMaterializerHandleDelivery tests the raw delivery boundary.
func TestMaterializerHandleDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("processes a well-formed body", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		m := NewMaterializer(fleet, nil)

		body, err := json.Marshal(testEvent())
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		if outcome := m.HandleDelivery(ctx, body); outcome != broker.OutcomeProcessed {
			t.Errorf("expected processed, got %s", outcome)
		}
	})

	t.Run("drops an unparseable body without raising", func(t *testing.T) {
		fleet := newFakeFleetWriter()
		m := NewMaterializer(fleet, nil)

		if outcome := m.HandleDelivery(ctx, []byte("{not json")); outcome != broker.OutcomeDropped {
			t.Errorf("expected dropped, got %s", outcome)
		}
		if len(fleet.inserted) != 0 {
			t.Errorf("expected no inserts, got %d", len(fleet.inserted))
		}
	})
}

// TestYearReporter tests the second consumer role.
func TestYearReporter(t *testing.T) {
	ctx := context.Background()
	r := NewYearReporter(nil)

	t.Run("acknowledges any valid event", func(t *testing.T) {
		for _, year := range []int{2023, 2024, 2025} {
			event := testEvent()
			event.Year = year
			body, _ := json.Marshal(event)

			if outcome := r.HandleDelivery(ctx, body); outcome != broker.OutcomeProcessed {
				t.Errorf("year %d: expected processed, got %s", year, outcome)
			}
		}
	})

	t.Run("drops malformed and blank deliveries", func(t *testing.T) {
		if outcome := r.HandleDelivery(ctx, []byte("nope")); outcome != broker.OutcomeDropped {
			t.Errorf("expected dropped, got %s", outcome)
		}

		event := testEvent()
		event.Identifier = ""
		body, _ := json.Marshal(event)
		if outcome := r.HandleDelivery(ctx, body); outcome != broker.OutcomeDropped {
			t.Errorf("expected dropped, got %s", outcome)
		}
	})
}
