// Package clock allows injecting time into services.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// brasiliaLocation is resolved once; domain timestamps are localized to
// Brasília, matching how rental windows are expressed by the business.
var brasiliaLocation = mustLoadBrasilia()

func mustLoadBrasilia() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fixed UTC-3 fallback for hosts without tzdata.
		return time.FixedZone("America/Sao_Paulo", -3*60*60)
	}
	return loc
}

type brasiliaClock struct{}

// NewBrasilia returns a clock backed by time.Now in America/Sao_Paulo.
func NewBrasilia() Clock {
	return brasiliaClock{}
}

func (brasiliaClock) Now() time.Time {
	return time.Now().In(brasiliaLocation)
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always reports the same instant (for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
