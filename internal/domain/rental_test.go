package domain

import (
	"regexp"
	"strconv"
	"testing"
	"time"
)

var identifierPattern = regexp.MustCompile(`^locacao(\d{4})$`)

// TestNewRentalIdentifier tests the generated identifier shape and range.
func TestNewRentalIdentifier(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewRentalIdentifier()
		m := identifierPattern.FindStringSubmatch(id)
		if m == nil {
			t.Fatalf("identifier %q does not match locacao<4 digits>", id)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			t.Fatalf("identifier %q: %v", id, err)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("identifier number %d out of [1000, 9999]", n)
		}
	}
}

// TestNewRental tests rental assembly.
func TestNewRental(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	r := NewRental("partner-1", "moto-1", start, end, end, 7, 30, 210)

	if r.Identifier == "" {
		t.Error("expected a generated identifier")
	}
	if r.PartnerID != "partner-1" || r.MotocycleID != "moto-1" {
		t.Errorf("unexpected parties: %+v", r)
	}
	if r.PlanDays != 7 || r.DailyRate != 30 || r.TotalValue != 210 {
		t.Errorf("unexpected pricing: %+v", r)
	}
}
