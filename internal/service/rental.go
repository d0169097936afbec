package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joaopjk/moto-manager/internal/clock"
	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/identity"
)

// Late returns pay a flat daily surcharge independent of the plan rate.
const lateReturnDailyCharge = 50.0

// identifierAttempts bounds the uniqueness retry loop for generated rental
// identifiers; the 9000-value space makes repeated collisions unlikely.
const identifierAttempts = 5

// RentalRepository persists rental contracts. Lookups return (nil, nil)
// when no record matches.
type RentalRepository interface {
	GetRentalByMotocycleID(ctx context.Context, motocycleID string) (*domain.Rental, error)
	GetRentalByIdentifier(ctx context.Context, identifier string) (*domain.Rental, error)
	InsertRental(ctx context.Context, rental *domain.Rental) error
	UpdateRental(ctx context.Context, rental *domain.Rental) error
}

// FleetRepository reads and updates fleet motorcycles. Lookups return
// (nil, nil) when no record matches.
type FleetRepository interface {
	GetMotocycleByIdentifier(ctx context.Context, identifier string) (*domain.Motocycle, error)
	GetMotocycleByPlate(ctx context.Context, plate string) (*domain.Motocycle, error)
	GetAllMotocycles(ctx context.Context) ([]domain.Motocycle, error)
	UpdateMotocycle(ctx context.Context, moto *domain.Motocycle) error
}

// PartnerRepository reads and persists delivery partners. Lookups return
// (nil, nil) when no record matches.
type PartnerRepository interface {
	GetPartnerByIdentifier(ctx context.Context, identifier string) (*domain.DeliveryPartner, error)
	GetPartnerByCnpj(ctx context.Context, cnpj string) (*domain.DeliveryPartner, error)
	GetPartnerByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.DeliveryPartner, error)
	InsertPartner(ctx context.Context, partner *domain.DeliveryPartner) error
}

// Pricer resolves plan pricing.
type Pricer interface {
	RentalValue(ctx context.Context, planDays, days int) (total, daily *float64, err error)
}

// CreateRentalInput carries a rental creation request.
type CreateRentalInput struct {
	PartnerID       string
	MotocycleID     string
	StartDate       time.Time
	EndDate         time.Time
	ExpectedEndDate time.Time
	PlanDays        int
}

// RentalService orchestrates rental creation and post-creation date
// adjustments. Every validation or not-found failure surfaces as the uniform
// domain.ErrInvalidData; the specific cause only reaches the log.
type RentalService struct {
	rentals  RentalRepository
	fleet    FleetRepository
	partners PartnerRepository
	pricing  Pricer
	clock    clock.Clock
	logger   *slog.Logger
}

// NewRentalService creates the rental lifecycle service.
func NewRentalService(rentals RentalRepository, fleet FleetRepository, partners PartnerRepository, pricing Pricer, clk clock.Clock, logger *slog.Logger) *RentalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RentalService{
		rentals:  rentals,
		fleet:    fleet,
		partners: partners,
		pricing:  pricing,
		clock:    clk,
		logger:   logger.With("component", "rental-service"),
	}
}

// Create validates and persists a new rental. Validation short-circuits on
// the first failure.
func (s *RentalService) Create(ctx context.Context, in CreateRentalInput) (*domain.Rental, error) {
	log := s.requestLogger(ctx)

	if !isValidCreateInput(in) {
		log.Warn("invalid rental input")
		return nil, domain.ErrInvalidData
	}

	partner, err := s.partners.GetPartnerByIdentifier(ctx, in.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		log.Warn("delivery partner not found", "partner_id", in.PartnerID)
		return nil, domain.ErrInvalidData
	}

	if !partner.DriverLicenseType.AllowsMotorcycle() {
		log.Warn("delivery partner lacks license class A", "partner_id", in.PartnerID)
		return nil, domain.ErrInvalidData
	}

	moto, err := s.fleet.GetMotocycleByIdentifier(ctx, in.MotocycleID)
	if err != nil {
		return nil, err
	}
	if moto == nil {
		log.Warn("motocycle not found", "motocycle_id", in.MotocycleID)
		return nil, domain.ErrInvalidData
	}

	// A motorcycle settles for one day after registration before it can be
	// rented: the start date must be exactly the following calendar day.
	if !sameCalendarDay(in.StartDate, moto.CreatedAt.AddDate(0, 0, 1)) {
		log.Warn("rental start date is not the day after motocycle creation",
			"start_date", in.StartDate,
			"motocycle_created_at", moto.CreatedAt,
		)
		return nil, domain.ErrInvalidData
	}

	total, daily, err := s.pricing.RentalValue(ctx, in.PlanDays, in.PlanDays)
	if err != nil {
		return nil, err
	}
	if total == nil || daily == nil {
		log.Warn("rental plan not found", "plan_days", in.PlanDays)
		return nil, domain.ErrInvalidData
	}

	existing, err := s.rentals.GetRentalByMotocycleID(ctx, in.MotocycleID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.ExpectedEndDate.Before(in.StartDate) {
		log.Warn("motocycle is already rented", "motocycle_id", in.MotocycleID)
		return nil, domain.ErrInvalidData
	}

	rental := domain.NewRental(in.PartnerID, in.MotocycleID, in.StartDate, in.EndDate, in.ExpectedEndDate, in.PlanDays, *daily, *total)
	if err := s.ensureUniqueIdentifier(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.rentals.InsertRental(ctx, rental); err != nil {
		return nil, err
	}

	log.Info("rental registered",
		"rental_id", rental.Identifier,
		"partner_id", in.PartnerID,
		"motocycle_id", in.MotocycleID,
	)
	return rental, nil
}

// ensureUniqueIdentifier regenerates the random identifier until no existing
// rental carries it, bounded by identifierAttempts.
func (s *RentalService) ensureUniqueIdentifier(ctx context.Context, rental *domain.Rental) error {
	for attempt := 0; attempt < identifierAttempts; attempt++ {
		existing, err := s.rentals.GetRentalByIdentifier(ctx, rental.Identifier)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		rental.Identifier = domain.NewRentalIdentifier()
	}
	return errors.New("could not allocate a unique rental identifier")
}

// GetByIdentifier retrieves a rental.
func (s *RentalService) GetByIdentifier(ctx context.Context, identifier string) (*domain.Rental, error) {
	log := s.requestLogger(ctx)

	if identifier == "" {
		log.Warn("rental identifier is blank")
		return nil, domain.ErrInvalidData
	}

	rental, err := s.rentals.GetRentalByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		log.Warn("rental not found", "rental_id", identifier)
		return nil, domain.ErrInvalidData
	}
	return rental, nil
}

// UpdateExpectedEndDate adjusts a rental's expected return date, computing
// the early-return penalty or late-return surcharge. It returns the updated
// rental and a human-readable description of the computation.
func (s *RentalService) UpdateExpectedEndDate(ctx context.Context, identifier string, newExpectedEndDate time.Time) (*domain.Rental, string, error) {
	log := s.requestLogger(ctx)

	rental, err := s.rentals.GetRentalByIdentifier(ctx, identifier)
	if err != nil {
		return nil, "", err
	}
	if rental == nil {
		log.Warn("rental not found", "rental_id", identifier)
		return nil, "", domain.ErrInvalidData
	}

	now := s.clock.Now()
	if !newExpectedEndDate.After(now) {
		log.Warn("new expected end date must be in the future", "rental_id", identifier)
		return nil, "", domain.ErrInvalidData
	}
	if !rental.EndDate.After(now) {
		log.Warn("rental is already closed", "rental_id", identifier)
		return nil, "", domain.ErrInvalidData
	}

	var details string
	switch {
	case newExpectedEndDate.Before(rental.ExpectedEndDate):
		// Early return still charges the unused daily rates, plus a
		// plan-dependent penalty on top. The sign convention is deliberate:
		// this is a charge, not a refund.
		unusedDays := daysBetween(newExpectedEndDate, rental.ExpectedEndDate)
		penalty := float64(unusedDays) * rental.DailyRate * earlyReturnPenaltyRate(rental.PlanDays)
		additionalCharge := float64(unusedDays)*rental.DailyRate + penalty
		details = fmt.Sprintf("Early return. Diárias não efetivadas: %d, Multa: R$ %.2f, Valor adicional: R$ %.2f",
			unusedDays, penalty, additionalCharge)

	case newExpectedEndDate.After(rental.ExpectedEndDate):
		extraDays := daysBetween(rental.ExpectedEndDate, newExpectedEndDate)
		additionalCharge := float64(extraDays) * lateReturnDailyCharge
		details = fmt.Sprintf("Late return. Diárias adicionais: %d, Valor adicional: R$ %.2f",
			extraDays, additionalCharge)

	default:
		details = "No additional charges."
	}

	rental.ExpectedEndDate = newExpectedEndDate
	if err := s.rentals.UpdateRental(ctx, rental); err != nil {
		return nil, "", err
	}

	log.Info("expected end date updated", "rental_id", identifier, "details", details)
	return rental, details, nil
}

func (s *RentalService) requestLogger(ctx context.Context) *slog.Logger {
	correlationID, userID := identity.RequestInfo(ctx)
	return s.logger.With("correlation_id", correlationID, "user_id", userID)
}

func isValidCreateInput(in CreateRentalInput) bool {
	return in.PartnerID != "" &&
		in.MotocycleID != "" &&
		!in.StartDate.IsZero() &&
		!in.EndDate.IsZero() &&
		!in.ExpectedEndDate.IsZero() &&
		in.EndDate.After(in.StartDate) &&
		!in.ExpectedEndDate.Before(in.StartDate) &&
		!in.ExpectedEndDate.After(in.EndDate) &&
		in.PlanDays != 0
}

func earlyReturnPenaltyRate(planDays int) float64 {
	switch planDays {
	case 7:
		return 0.20
	case 15:
		return 0.40
	default:
		return 0
	}
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameCalendarDay(a, b time.Time) bool {
	return dateOf(a).Equal(dateOf(b))
}
