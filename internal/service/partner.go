package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/identity"
)

// PartnerInput carries a delivery partner onboarding request.
type PartnerInput struct {
	Identifier    string
	Name          string
	Cnpj          string
	DateOfBirth   time.Time
	LicenseNumber string
	LicenseType   string
}

// PartnerService handles delivery partner onboarding.
type PartnerService struct {
	partners PartnerRepository
	logger   *slog.Logger
}

// NewPartnerService creates the partner service.
func NewPartnerService(partners PartnerRepository, logger *slog.Logger) *PartnerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartnerService{
		partners: partners,
		logger:   logger.With("component", "partner-service"),
	}
}

// Register validates and persists a new delivery partner. CNPJ and license
// number must be unique.
func (s *PartnerService) Register(ctx context.Context, in PartnerInput) error {
	log := s.requestLogger(ctx)

	cnpj, cnpjErr := domain.ParseCnpj(in.Cnpj)
	cnh, cnhErr := domain.ParseCnh(in.LicenseNumber)
	licenseType, licenseErr := domain.ParseLicenseType(in.LicenseType)

	if cnpjErr != nil || cnhErr != nil || licenseErr != nil ||
		strings.TrimSpace(in.Identifier) == "" ||
		strings.TrimSpace(in.Name) == "" ||
		in.DateOfBirth.IsZero() {
		log.Warn("invalid partner registration input", "partner_id", in.Identifier)
		return domain.ErrInvalidData
	}

	if existing, err := s.partners.GetPartnerByIdentifier(ctx, strings.TrimSpace(in.Identifier)); err != nil {
		return err
	} else if existing != nil {
		log.Warn("partner identifier already registered", "partner_id", in.Identifier)
		return domain.ErrInvalidData
	}

	if existing, err := s.partners.GetPartnerByCnpj(ctx, cnpj.Value()); err != nil {
		return err
	} else if existing != nil {
		log.Warn("cnpj already registered", "partner_id", in.Identifier)
		return domain.ErrInvalidData
	}

	if existing, err := s.partners.GetPartnerByLicenseNumber(ctx, cnh.Value()); err != nil {
		return err
	} else if existing != nil {
		log.Warn("driver license already registered", "partner_id", in.Identifier)
		return domain.ErrInvalidData
	}

	_, userID := identity.RequestInfo(ctx)
	partner := &domain.DeliveryPartner{
		Identifier:          strings.TrimSpace(in.Identifier),
		Name:                strings.TrimSpace(in.Name),
		Cnpj:                cnpj.Value(),
		DateOfBirth:         in.DateOfBirth,
		DriverLicenseNumber: cnh.Value(),
		DriverLicenseType:   licenseType,
		UserID:              userID,
	}
	if err := s.partners.InsertPartner(ctx, partner); err != nil {
		return err
	}

	log.Info("delivery partner registered", "partner_id", partner.Identifier)
	return nil
}

// GetByIdentifier retrieves a delivery partner.
func (s *PartnerService) GetByIdentifier(ctx context.Context, identifier string) (*domain.DeliveryPartner, error) {
	log := s.requestLogger(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		log.Warn("partner identifier is blank")
		return nil, domain.ErrInvalidData
	}

	partner, err := s.partners.GetPartnerByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		log.Warn("partner not found", "partner_id", identifier)
		return nil, domain.ErrInvalidData
	}
	return partner, nil
}

func (s *PartnerService) requestLogger(ctx context.Context) *slog.Logger {
	correlationID, userID := identity.RequestInfo(ctx)
	return s.logger.With("correlation_id", correlationID, "user_id", userID)
}
