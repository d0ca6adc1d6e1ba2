package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/repository"
)

// PlanCount pairs a plan tier with its customer count.
type PlanCount struct {
	PlanName string
	Count    int64
}

// AdminStats aggregates the dashboard numbers the admin sees. All values are
// derived from the store per request.
type AdminStats struct {
	TotalCustomers   int64
	ActiveCustomers  int64
	ExpiredCustomers int64
	TotalStaff       int64
	TotalAdders      int64
	TotalUpdaters    int64
	RevenueByPlan    []PlanCount
}

// StatsService computes admin dashboard aggregates.
type StatsService struct {
	staff     repository.StaffRepository
	customers repository.CustomerRepository
}

// NewStatsService constructs the service.
func NewStatsService(staff repository.StaffRepository, customers repository.CustomerRepository) *StatsService {
	return &StatsService{staff: staff, customers: customers}
}

// Compute gathers the aggregates as of now.
func (s *StatsService) Compute(ctx context.Context, now time.Time) (*AdminStats, error) {
	customerStats, err := s.customers.Stats(ctx, now)
	if err != nil {
		return nil, err
	}

	accounts, err := s.staff.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{
		TotalCustomers:   customerStats.Total,
		ActiveCustomers:  customerStats.Active,
		ExpiredCustomers: customerStats.Expired,
		TotalStaff:       int64(len(accounts)),
	}
	for _, account := range accounts {
		switch account.Role {
		case domain.StaffRoleAdder:
			stats.TotalAdders++
		case domain.StaffRoleUpdater:
			stats.TotalUpdaters++
		}
	}

	for plan, count := range customerStats.CountsPerPlan {
		stats.RevenueByPlan = append(stats.RevenueByPlan, PlanCount{PlanName: plan, Count: count})
	}
	sort.Slice(stats.RevenueByPlan, func(i, j int) bool {
		return stats.RevenueByPlan[i].PlanName < stats.RevenueByPlan[j].PlanName
	})
	return stats, nil
}
