package domain

import (
	"regexp"
	"strings"
)

var cnhPattern = regexp.MustCompile(`^\d{11}$`)

// Cnh is a validated CNH (driver license number).
// Construct only through ParseCnh.
type Cnh struct {
	value string
}

// ParseCnh validates a CNH string including its check digits.
func ParseCnh(s string) (Cnh, error) {
	s = strings.TrimSpace(s)
	if !IsValidCnh(s) {
		return Cnh{}, ErrInvalidCnh
	}
	return Cnh{value: s}, nil
}

// IsValidCnh reports whether s is a structurally valid CNH.
func IsValidCnh(s string) bool {
	s = strings.TrimSpace(s)
	if !cnhPattern.MatchString(s) {
		return false
	}
	if allSameDigit(s) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digitAt(s, i) * (9 - i)
	}
	dv1 := sum % 11
	if dv1 >= 10 {
		dv1 = 0
	}

	sum = 0
	for i := 0; i < 9; i++ {
		sum += digitAt(s, i) * (i + 1)
	}
	dv2 := sum % 11
	if dv2 >= 10 {
		dv2 = 0
	}

	return digitAt(s, 9) == dv1 && digitAt(s, 10) == dv2
}

// Value returns the validated CNH.
func (c Cnh) Value() string {
	return c.value
}
