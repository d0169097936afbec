package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joaopjk/moto-manager/internal/broker"
	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/identity"
)

// FleetInput carries a fleet registration command.
type FleetInput struct {
	Identifier string
	Year       int
	Model      string
	Plate      string
}

// FleetService handles fleet registration and queries. Registration is
// write-behind: the command only publishes a creation event, and the worker
// performs the actual persistence, so fleet visibility is eventually
// consistent.
type FleetService struct {
	fleet     FleetRepository
	publisher broker.Publisher
	logger    *slog.Logger
}

// NewFleetService creates the fleet service.
func NewFleetService(fleet FleetRepository, publisher broker.Publisher, logger *slog.Logger) *FleetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FleetService{
		fleet:     fleet,
		publisher: publisher,
		logger:    logger.With("component", "fleet-service"),
	}
}

// Register validates the command, rejects duplicate plates synchronously,
// and publishes the creation event.
func (s *FleetService) Register(ctx context.Context, in FleetInput) error {
	log := s.requestLogger(ctx)

	plate, err := domain.ParsePlate(in.Plate)
	if err != nil || strings.TrimSpace(in.Identifier) == "" || strings.TrimSpace(in.Model) == "" || in.Year <= 0 {
		log.Warn("invalid motocycle registration input", "plate", in.Plate)
		return domain.ErrInvalidData
	}

	existing, err := s.fleet.GetMotocycleByPlate(ctx, plate.Value())
	if err != nil {
		return err
	}
	if existing != nil {
		log.Warn("motocycle already exists", "plate", plate.Value())
		return domain.ErrInvalidData
	}

	correlationID, userID := identity.RequestInfo(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	event, err := domain.NewFleetCreationEvent(
		correlationID,
		userID,
		strings.TrimSpace(in.Identifier),
		in.Year,
		strings.TrimSpace(in.Model),
		plate.Value(),
	)
	if err != nil {
		log.Warn("invalid fleet creation event", "error", err)
		return domain.ErrInvalidData
	}

	if err := s.publisher.PublishFleetCreation(ctx, event); err != nil {
		return err
	}

	log.Info("motocycle registration published", "plate", plate.Value())
	return nil
}

// GetByIdentifier retrieves a motorcycle.
func (s *FleetService) GetByIdentifier(ctx context.Context, identifier string) (*domain.Motocycle, error) {
	log := s.requestLogger(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		log.Warn("motocycle identifier is blank")
		return nil, domain.ErrInvalidData
	}

	moto, err := s.fleet.GetMotocycleByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if moto == nil {
		log.Warn("motocycle not found", "motocycle_id", identifier)
		return nil, domain.ErrInvalidData
	}
	return moto, nil
}

// Search lists motorcycles, optionally filtered by exact plate.
func (s *FleetService) Search(ctx context.Context, plate string) ([]domain.Motocycle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return s.fleet.GetAllMotocycles(ctx)
	}

	moto, err := s.fleet.GetMotocycleByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if moto == nil {
		return []domain.Motocycle{}, nil
	}
	return []domain.Motocycle{*moto}, nil
}

// UpdatePlate changes a motorcycle's plate.
func (s *FleetService) UpdatePlate(ctx context.Context, identifier, plate string) error {
	log := s.requestLogger(ctx)

	parsed, err := domain.ParsePlate(plate)
	if err != nil || strings.TrimSpace(identifier) == "" {
		log.Warn("invalid plate update input", "motocycle_id", identifier, "plate", plate)
		return domain.ErrInvalidData
	}

	moto, err := s.fleet.GetMotocycleByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return err
	}
	if moto == nil {
		log.Warn("motocycle not found", "motocycle_id", identifier)
		return domain.ErrInvalidData
	}

	moto.Plate = parsed.Value()
	if err := s.fleet.UpdateMotocycle(ctx, moto); err != nil {
		return err
	}

	log.Info("motocycle plate updated", "motocycle_id", identifier, "plate", parsed.Value())
	return nil
}

func (s *FleetService) requestLogger(ctx context.Context) *slog.Logger {
	correlationID, userID := identity.RequestInfo(ctx)
	return s.logger.With("correlation_id", correlationID, "user_id", userID)
}
