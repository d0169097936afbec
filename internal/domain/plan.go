package domain

// RentalPlan is immutable reference data: a contracted rental duration and
// its daily rate. Multiple records may share the same Days value; readers
// deduplicate by lowest ID.
type RentalPlan struct {
	ID        int64   `json:"id"`
	Days      int     `json:"days"`
	DailyRate float64 `json:"dailyRate"`
}

// DefaultRentalPlans is the plan table seeded at startup.
func DefaultRentalPlans() []RentalPlan {
	return []RentalPlan{
		{Days: 7, DailyRate: 30},
		{Days: 15, DailyRate: 28},
		{Days: 30, DailyRate: 22},
		{Days: 45, DailyRate: 20},
		{Days: 50, DailyRate: 18},
	}
}
