package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/events"
	"github.com/spec-kit/customer-service/internal/repository"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

// StaffService serves the admin staff-management operations.
type StaffService struct {
	staff      repository.StaffRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *StaffService {
	return &StaffService{staff: staff, customers: customers, dispatcher: dispatcher}
}

// ListWithStats returns every staff account augmented with the number of
// customers it added. The count is derived per request, never stored.
func (s *StaffService) ListWithStats(ctx context.Context) ([]domain.StaffWithStats, error) {
	accounts, err := s.staff.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.StaffWithStats, 0, len(accounts))
	for i := range accounts {
		count, err := s.customers.CountByAddedBy(ctx, accounts[i].Username)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.StaffWithStats{
			StaffAccount:   accounts[i],
			CustomersAdded: count,
		})
	}
	return result, nil
}

// Delete removes a staff account. Customers the account added keep their
// AddedBy provenance; deletion never cascades.
func (s *StaffService) Delete(ctx context.Context, staffID string) error {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Staff member not found")
		}
		return err
	}
	if err := s.staff.Delete(ctx, staffID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Staff member not found")
		}
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventStaffDeleted,
			Actor:     staff.Username,
			Timestamp: time.Now(),
			Payload: events.StaffPayload{
				StaffID:  staff.ID,
				Username: staff.Username,
				Role:     staff.Role,
			},
		})
	}
	return nil
}
