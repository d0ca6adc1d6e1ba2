// Package testutil provides in-memory repository implementations for tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/repository"
)

// uniqueViolation builds the pgconn error the store raises when a unique
// constraint fires, so stubs exercise the same backstop path as Postgres.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// StaffRepositoryStub is an in-memory repository.StaffRepository.
type StaffRepositoryStub struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	records map[string]*domain.StaffAccount
}

// NewStaffRepositoryStub builds an empty stub.
func NewStaffRepositoryStub() *StaffRepositoryStub {
	return &StaffRepositoryStub{
		clock:   time.Now().Add(-time.Hour),
		records: make(map[string]*domain.StaffAccount),
	}
}

func (s *StaffRepositoryStub) Create(_ context.Context, staff *domain.StaffAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.Username == staff.Username {
			return uniqueViolation("staff_accounts_username_key")
		}
		if existing.Email == staff.Email {
			return uniqueViolation("staff_accounts_email_key")
		}
	}
	s.seq++
	s.clock = s.clock.Add(time.Second)
	staff.ID = fmt.Sprintf("staff-%d", s.seq)
	staff.CreatedAt = s.clock
	staff.UpdatedAt = s.clock
	copied := *staff
	s.records[staff.ID] = &copied
	return nil
}

func (s *StaffRepositoryStub) GetByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if staff, ok := s.records[id]; ok {
		copied := *staff
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *StaffRepositoryStub) GetByUsername(_ context.Context, username string) (*domain.StaffAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, staff := range s.records {
		if staff.Username == username {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *StaffRepositoryStub) GetByEmail(_ context.Context, email string) (*domain.StaffAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, staff := range s.records {
		if staff.Email == email {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *StaffRepositoryStub) List(_ context.Context) ([]domain.StaffAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.StaffAccount, 0, len(s.records))
	for _, staff := range s.records {
		result = append(result, *staff)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StaffRepositoryStub) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.records, id)
	return nil
}

// CustomerRepositoryStub is an in-memory repository.CustomerRepository.
type CustomerRepositoryStub struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	records map[string]*domain.CustomerRecord

	// CreateErr, when set, is returned by Create before any mutation.
	CreateErr error
}

// NewCustomerRepositoryStub builds an empty stub.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		clock:   time.Now().Add(-time.Hour),
		records: make(map[string]*domain.CustomerRecord),
	}
}

func (s *CustomerRepositoryStub) Create(_ context.Context, customer *domain.CustomerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, existing := range s.records {
		if existing.Email == customer.Email {
			return uniqueViolation("customers_email_key")
		}
	}
	s.seq++
	s.clock = s.clock.Add(time.Second)
	customer.ID = fmt.Sprintf("customer-%d", s.seq)
	customer.CreatedAt = s.clock
	customer.UpdatedAt = s.clock
	copied := *customer
	s.records[customer.ID] = &copied
	return nil
}

func (s *CustomerRepositoryStub) Update(_ context.Context, customer *domain.CustomerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[customer.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, other := range s.records {
		if id != customer.ID && other.Email == customer.Email {
			return uniqueViolation("customers_email_key")
		}
	}
	s.clock = s.clock.Add(time.Second)
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = s.clock
	copied := *customer
	s.records[customer.ID] = &copied
	return nil
}

func (s *CustomerRepositoryStub) GetByID(_ context.Context, id string) (*domain.CustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer, ok := s.records[id]; ok {
		copied := *customer
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *CustomerRepositoryStub) GetByEmail(_ context.Context, email string) (*domain.CustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, customer := range s.records {
		if customer.Email == email {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *CustomerRepositoryStub) List(_ context.Context, filter repository.CustomerFilter) ([]domain.CustomerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	result := make([]domain.CustomerRecord, 0, len(s.records))
	for _, customer := range s.records {
		if !matchesFilter(customer, filter, now) {
			continue
		}
		result = append(result, *customer)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *CustomerRepositoryStub) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.records, id)
	return nil
}

func (s *CustomerRepositoryStub) CountByAddedBy(_ context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, customer := range s.records {
		if customer.AddedBy == username {
			count++
		}
	}
	return count, nil
}

func (s *CustomerRepositoryStub) Stats(_ context.Context, now time.Time) (*repository.CustomerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &repository.CustomerStats{CountsPerPlan: map[string]int64{}}
	for _, customer := range s.records {
		stats.Total++
		if customer.Plan.EndDate.After(now) {
			stats.Active++
		} else {
			stats.Expired++
		}
		stats.CountsPerPlan[string(customer.Plan.Name)]++
	}
	return stats, nil
}

func matchesFilter(customer *domain.CustomerRecord, filter repository.CustomerFilter, now time.Time) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(customer.Name), needle) &&
			!strings.Contains(strings.ToLower(customer.Email), needle) &&
			!strings.Contains(strings.ToLower(customer.Phone), needle) {
			return false
		}
	}
	if filter.PlanType != "" && string(customer.Plan.Name) != filter.PlanType {
		return false
	}
	switch filter.Status {
	case "active":
		if !customer.Plan.EndDate.After(now) {
			return false
		}
	case "expired":
		if customer.Plan.EndDate.After(now) {
			return false
		}
	}
	switch filter.MemberType {
	case "company":
		if !customer.IsCompanyMember {
			return false
		}
	case "customer":
		if customer.IsCompanyMember {
			return false
		}
	}
	if filter.DateFrom != nil && customer.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && customer.CreatedAt.After(*filter.DateTo) {
		return false
	}
	return true
}
