package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/joaopjk/moto-manager/internal/clock"
	"github.com/joaopjk/moto-manager/internal/domain"
)

// FleetRepository persists fleet motorcycles.
type FleetRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewFleetRepository creates the fleet repository.
func NewFleetRepository(db *gorm.DB, clk clock.Clock) *FleetRepository {
	return &FleetRepository{db: db, clock: clk}
}

func (r *FleetRepository) GetMotocycleByIdentifier(ctx context.Context, identifier string) (*domain.Motocycle, error) {
	var m motocycleModel
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&m).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *FleetRepository) GetMotocycleByPlate(ctx context.Context, plate string) (*domain.Motocycle, error) {
	var m motocycleModel
	if err := r.db.WithContext(ctx).Where("plate = ?", plate).First(&m).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *FleetRepository) GetAllMotocycles(ctx context.Context) ([]domain.Motocycle, error) {
	var models []motocycleModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&models).Error; err != nil {
		return nil, err
	}
	motos := make([]domain.Motocycle, 0, len(models))
	for i := range models {
		motos = append(motos, *models[i].toDomain())
	}
	return motos, nil
}

func (r *FleetRepository) InsertMotocycle(ctx context.Context, moto *domain.Motocycle) error {
	now := r.clock.Now()
	m := motocycleModel{
		Identifier: moto.Identifier,
		Year:       moto.Year,
		Model:      moto.Model,
		Plate:      moto.Plate,
		UserID:     moto.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	moto.ID = m.ID
	moto.CreatedAt = m.CreatedAt
	return nil
}

func (r *FleetRepository) UpdateMotocycle(ctx context.Context, moto *domain.Motocycle) error {
	return r.db.WithContext(ctx).
		Model(&motocycleModel{}).
		Where("identifier = ?", moto.Identifier).
		Updates(map[string]any{
			"plate":      moto.Plate,
			"updated_at": r.clock.Now(),
		}).Error
}

// PartnerRepository persists delivery partners.
type PartnerRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewPartnerRepository creates the partner repository.
func NewPartnerRepository(db *gorm.DB, clk clock.Clock) *PartnerRepository {
	return &PartnerRepository{db: db, clock: clk}
}

func (r *PartnerRepository) GetPartnerByIdentifier(ctx context.Context, identifier string) (*domain.DeliveryPartner, error) {
	return r.getPartner(ctx, "identifier = ?", identifier)
}

func (r *PartnerRepository) GetPartnerByCnpj(ctx context.Context, cnpj string) (*domain.DeliveryPartner, error) {
	return r.getPartner(ctx, "cnpj = ?", cnpj)
}

func (r *PartnerRepository) GetPartnerByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.DeliveryPartner, error) {
	return r.getPartner(ctx, "driver_license_number = ?", licenseNumber)
}

func (r *PartnerRepository) getPartner(ctx context.Context, query string, arg any) (*domain.DeliveryPartner, error) {
	var m deliveryPartnerModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *PartnerRepository) InsertPartner(ctx context.Context, partner *domain.DeliveryPartner) error {
	now := r.clock.Now()
	m := deliveryPartnerModel{
		Identifier:          partner.Identifier,
		Name:                partner.Name,
		Cnpj:                partner.Cnpj,
		DateOfBirth:         partner.DateOfBirth,
		DriverLicenseNumber: partner.DriverLicenseNumber,
		DriverLicenseType:   string(partner.DriverLicenseType),
		UserID:              partner.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	partner.ID = m.ID
	partner.CreatedAt = m.CreatedAt
	return nil
}

// RentalRepository persists rental contracts.
type RentalRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewRentalRepository creates the rental repository.
func NewRentalRepository(db *gorm.DB, clk clock.Clock) *RentalRepository {
	return &RentalRepository{db: db, clock: clk}
}

func (r *RentalRepository) GetRentalByMotocycleID(ctx context.Context, motocycleID string) (*domain.Rental, error) {
	var m rentalModel
	err := r.db.WithContext(ctx).
		Where("motocycle_id = ?", motocycleID).
		Order("expected_end_date desc").
		First(&m).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *RentalRepository) GetRentalByIdentifier(ctx context.Context, identifier string) (*domain.Rental, error) {
	var m rentalModel
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&m).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *RentalRepository) InsertRental(ctx context.Context, rental *domain.Rental) error {
	now := r.clock.Now()
	m := rentalModel{
		Identifier:      rental.Identifier,
		PartnerID:       rental.PartnerID,
		MotocycleID:     rental.MotocycleID,
		StartDate:       rental.StartDate,
		EndDate:         rental.EndDate,
		ExpectedEndDate: rental.ExpectedEndDate,
		PlanDays:        rental.PlanDays,
		DailyRate:       rental.DailyRate,
		TotalValue:      rental.TotalValue,
		UserID:          rental.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rental.ID = m.ID
	rental.CreatedAt = m.CreatedAt
	return nil
}

func (r *RentalRepository) UpdateRental(ctx context.Context, rental *domain.Rental) error {
	return r.db.WithContext(ctx).
		Model(&rentalModel{}).
		Where("identifier = ?", rental.Identifier).
		Updates(map[string]any{
			"expected_end_date": rental.ExpectedEndDate,
			"updated_at":        r.clock.Now(),
		}).Error
}

// PlanRepository reads the rental plan table.
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates the plan repository.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetPlanTable(ctx context.Context) ([]domain.RentalPlan, error) {
	var models []rentalPlanModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	plans := make([]domain.RentalPlan, 0, len(models))
	for _, m := range models {
		plans = append(plans, domain.RentalPlan{ID: m.ID, Days: m.Days, DailyRate: m.DailyRate})
	}
	return plans, nil
}

// EnsureDefaultPlans seeds any missing default plans. Existing rows are
// never modified; the plan table is read-only after startup.
func (r *PlanRepository) EnsureDefaultPlans(ctx context.Context, plans []domain.RentalPlan) error {
	for _, plan := range plans {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&rentalPlanModel{}).
			Where("days = ?", plan.Days).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		m := rentalPlanModel{Days: plan.Days, DailyRate: plan.DailyRate}
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
