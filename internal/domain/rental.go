package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// Rental is a motorcycle rental contract. ExpectedEndDate is the only field
// mutated after creation; rentals are never deleted through normal flow.
type Rental struct {
	ID              int64
	Identifier      string
	PartnerID       string
	MotocycleID     string
	StartDate       time.Time
	EndDate         time.Time
	ExpectedEndDate time.Time
	PlanDays        int
	DailyRate       float64
	TotalValue      float64
	UserID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRental assembles a rental with a freshly generated identifier.
// Uniqueness against existing records is the caller's responsibility.
func NewRental(partnerID, motocycleID string, start, end, expectedEnd time.Time, planDays int, dailyRate, totalValue float64) *Rental {
	return &Rental{
		Identifier:      NewRentalIdentifier(),
		PartnerID:       partnerID,
		MotocycleID:     motocycleID,
		StartDate:       start,
		EndDate:         end,
		ExpectedEndDate: expectedEnd,
		PlanDays:        planDays,
		DailyRate:       dailyRate,
		TotalValue:      totalValue,
	}
}

// NewRentalIdentifier returns "locacao" followed by four digits in
// [1000, 9999], uniform via rejection sampling over a crypto-random
// 32-bit value.
func NewRentalIdentifier() string {
	return fmt.Sprintf("locacao%d", fourDigitNumber())
}

func fourDigitNumber() int {
	const span = 9000
	// Largest multiple of span that fits in 32 bits; values at or above it
	// would bias the modulo and are redrawn.
	const limit = (1 << 32) / span * span

	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand.Read does not fail on supported platforms.
			panic(err)
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v < limit {
			return int(v%span) + 1000
		}
	}
}
