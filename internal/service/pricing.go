// Package service implements the moto-manager business logic.
package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/joaopjk/moto-manager/internal/cache"
	"github.com/joaopjk/moto-manager/internal/domain"
)

const (
	planTableCacheKey = "rental_plans"

	// The plan table is immutable reference data; the memory tier keeps it
	// hot while the distributed tier absorbs miss storms across instances.
	planMemoryTTL      = 10 * time.Minute
	planDistributedTTL = 30 * time.Minute
)

// PlanRepository provides the rental plan table.
type PlanRepository interface {
	GetPlanTable(ctx context.Context) ([]domain.RentalPlan, error)
}

// PlanCache is the degrading cache contract consumed by the pricing service.
type PlanCache interface {
	GetOrSet(ctx context.Context, key string, dest any, fetch cache.Fetch, memoryTTL, distributedTTL time.Duration) error
}

// PricingService resolves a plan's daily rate through the degrading cache
// and computes rental totals.
type PricingService struct {
	plans PlanRepository
	cache PlanCache
}

// NewPricingService creates the pricing service.
func NewPricingService(plans PlanRepository, planCache PlanCache) *PricingService {
	return &PricingService{plans: plans, cache: planCache}
}

// RentalValue returns the total for renting `days` days under plan
// `planDays`, plus the plan's daily rate, both rounded to two decimals.
// Both are nil when no plan matches. Cache or store faults propagate.
func (s *PricingService) RentalValue(ctx context.Context, planDays, days int) (total, daily *float64, err error) {
	plan, err := s.planFor(ctx, planDays)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, nil
	}

	t := round2(plan.DailyRate * float64(days))
	d := round2(plan.DailyRate)
	return &t, &d, nil
}

func (s *PricingService) planFor(ctx context.Context, planDays int) (*domain.RentalPlan, error) {
	var table []domain.RentalPlan
	err := s.cache.GetOrSet(ctx, planTableCacheKey, &table, func(ctx context.Context) (any, error) {
		return s.plans.GetPlanTable(ctx)
	}, planMemoryTTL, planDistributedTTL)
	if err != nil {
		return nil, err
	}

	for _, plan := range dedupeByDays(table) {
		if plan.Days == planDays {
			return &plan, nil
		}
	}
	return nil, nil
}

// dedupeByDays keeps one plan per Days value. The store's return order is
// not guaranteed stable, so the tie-break is explicit: the record with the
// lowest internal id wins.
func dedupeByDays(table []domain.RentalPlan) []domain.RentalPlan {
	sorted := make([]domain.RentalPlan, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[int]bool, len(sorted))
	result := sorted[:0]
	for _, plan := range sorted {
		if seen[plan.Days] {
			continue
		}
		seen[plan.Days] = true
		result = append(result, plan)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
