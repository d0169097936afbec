package domain

import (
	"regexp"
	"strings"
)

var (
	oldPlatePattern      = regexp.MustCompile(`^[A-Z]{3}-?[0-9]{4}$`)
	mercosulPlatePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// Plate is a validated Brazilian license plate (old or Mercosul format),
// normalized to upper case. Construct only through ParsePlate.
type Plate struct {
	value string
}

// ParsePlate validates and normalizes a plate string.
func ParsePlate(s string) (Plate, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !IsValidPlate(s) {
		return Plate{}, ErrInvalidPlate
	}
	return Plate{value: s}, nil
}

// IsValidPlate reports whether s matches either plate format.
func IsValidPlate(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	return oldPlatePattern.MatchString(s) || mercosulPlatePattern.MatchString(s)
}

// Value returns the normalized plate.
func (p Plate) Value() string {
	return p.value
}

func (p Plate) String() string {
	return p.value
}
