package domain

import (
	"regexp"
	"strings"
)

var cnpjPattern = regexp.MustCompile(`^\d{14}$`)

// Cnpj is a validated CNPJ (company registration number).
// Construct only through ParseCnpj.
type Cnpj struct {
	value string
}

// ParseCnpj validates a CNPJ string including its check digits.
func ParseCnpj(s string) (Cnpj, error) {
	s = strings.TrimSpace(s)
	if !IsValidCnpj(s) {
		return Cnpj{}, ErrInvalidCnpj
	}
	return Cnpj{value: s}, nil
}

// IsValidCnpj reports whether s is a structurally valid CNPJ.
func IsValidCnpj(s string) bool {
	s = strings.TrimSpace(s)
	if !cnpjPattern.MatchString(s) {
		return false
	}
	if allSameDigit(s) {
		return false
	}

	multiplier1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	multiplier2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += digitAt(s, i) * multiplier1[i]
	}
	digit1 := 11 - sum%11
	if sum%11 < 2 {
		digit1 = 0
	}

	sum = digit1 * multiplier2[12]
	for i := 0; i < 12; i++ {
		sum += digitAt(s, i) * multiplier2[i]
	}
	digit2 := 11 - sum%11
	if sum%11 < 2 {
		digit2 = 0
	}

	return digitAt(s, 12) == digit1 && digitAt(s, 13) == digit2
}

// Value returns the validated CNPJ.
func (c Cnpj) Value() string {
	return c.value
}

func digitAt(s string, i int) int {
	return int(s[i] - '0')
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
