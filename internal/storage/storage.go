// Package storage implements the repositories on MySQL through GORM.
package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/joaopjk/moto-manager/internal/config"
	"github.com/joaopjk/moto-manager/internal/domain"
)

// Open connects to the database and ensures the schema exists.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN.Value()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)

	if err := db.AutoMigrate(
		&motocycleModel{},
		&deliveryPartnerModel{},
		&rentalModel{},
		&rentalPlanModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

type motocycleModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Identifier string    `gorm:"uniqueIndex;size:64;not null"`
	Year       int       `gorm:"not null"`
	Model      string    `gorm:"size:64;not null"`
	Plate      string    `gorm:"uniqueIndex;size:16;not null"`
	UserID     string    `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

func (motocycleModel) TableName() string { return "motocycles" }

type deliveryPartnerModel struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement"`
	Identifier          string    `gorm:"uniqueIndex;size:64;not null"`
	Name                string    `gorm:"size:128;not null"`
	Cnpj                string    `gorm:"uniqueIndex;size:14;not null"`
	DateOfBirth         time.Time `gorm:"not null"`
	DriverLicenseNumber string    `gorm:"uniqueIndex;size:11;not null"`
	DriverLicenseType   string    `gorm:"size:8;not null"`
	UserID              string    `gorm:"size:64"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time
}

func (deliveryPartnerModel) TableName() string { return "delivery_partners" }

type rentalModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Identifier      string    `gorm:"uniqueIndex;size:32;not null"`
	PartnerID       string    `gorm:"index;size:64;not null"`
	MotocycleID     string    `gorm:"index;size:64;not null"`
	StartDate       time.Time `gorm:"not null"`
	EndDate         time.Time `gorm:"not null"`
	ExpectedEndDate time.Time `gorm:"not null"`
	PlanDays        int       `gorm:"not null"`
	DailyRate       float64   `gorm:"not null"`
	TotalValue      float64   `gorm:"not null"`
	UserID          string    `gorm:"size:64"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time
}

func (rentalModel) TableName() string { return "motocycle_rentals" }

type rentalPlanModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Days      int     `gorm:"index;not null"`
	DailyRate float64 `gorm:"not null"`
	CreatedAt time.Time
}

func (rentalPlanModel) TableName() string { return "rental_plans" }

func (m *motocycleModel) toDomain() *domain.Motocycle {
	return &domain.Motocycle{
		ID:         m.ID,
		Identifier: m.Identifier,
		Year:       m.Year,
		Model:      m.Model,
		Plate:      m.Plate,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (m *deliveryPartnerModel) toDomain() *domain.DeliveryPartner {
	return &domain.DeliveryPartner{
		ID:                  m.ID,
		Identifier:          m.Identifier,
		Name:                m.Name,
		Cnpj:                m.Cnpj,
		DateOfBirth:         m.DateOfBirth,
		DriverLicenseNumber: m.DriverLicenseNumber,
		DriverLicenseType:   domain.LicenseType(m.DriverLicenseType),
		UserID:              m.UserID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (m *rentalModel) toDomain() *domain.Rental {
	return &domain.Rental{
		ID:              m.ID,
		Identifier:      m.Identifier,
		PartnerID:       m.PartnerID,
		MotocycleID:     m.MotocycleID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		ExpectedEndDate: m.ExpectedEndDate,
		PlanDays:        m.PlanDays,
		DailyRate:       m.DailyRate,
		TotalValue:      m.TotalValue,
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
