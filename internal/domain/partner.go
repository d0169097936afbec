package domain

import (
	"strings"
	"time"
)

// LicenseType is a driver license class combination.
type LicenseType string

const (
	LicenseTypeA  LicenseType = "A"
	LicenseTypeB  LicenseType = "B"
	LicenseTypeAB LicenseType = "A+B"
)

// ParseLicenseType validates a license class string.
func ParseLicenseType(s string) (LicenseType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return LicenseTypeA, nil
	case "B":
		return LicenseTypeB, nil
	case "A+B", "AB":
		return LicenseTypeAB, nil
	}
	return "", ErrInvalidLicenseType
}

// AllowsMotorcycle reports whether the license includes class A.
func (t LicenseType) AllowsMotorcycle() bool {
	return strings.Contains(strings.ToUpper(string(t)), "A")
}

// DeliveryPartner is a delivery rider who can rent fleet motorcycles.
type DeliveryPartner struct {
	ID                  int64
	Identifier          string
	Name                string
	Cnpj                string
	DateOfBirth         time.Time
	DriverLicenseNumber string
	DriverLicenseType   LicenseType
	UserID              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
