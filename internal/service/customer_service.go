package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/events"
	"github.com/spec-kit/customer-service/internal/repository"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

// dateLayouts are accepted plan date formats, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// CustomerService enforces the customer record validation contract and drives
// persistence.
type CustomerService struct {
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository, dispatcher events.Dispatcher) *CustomerService {
	return &CustomerService{customers: customers, dispatcher: dispatcher}
}

// PlanInput carries plan fields on creation; dates arrive as strings.
type PlanInput struct {
	Name      string
	StartDate string
	EndDate   string
}

// CreateCustomerInput carries the customer creation payload.
type CreateCustomerInput struct {
	Name              string
	Email             string
	Phone             string
	Location          string
	Profession        string
	Plan              PlanInput
	PaymentScreenshot string
	IsCompanyMember   bool
}

// Create validates and persists a new customer record. The caller's username
// becomes the immutable AddedBy provenance field; it is never client-supplied.
func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput, addedBy string) (*domain.CustomerRecord, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Plan.Name == "" || in.Plan.StartDate == "" || in.Plan.EndDate == "" || in.PaymentScreenshot == "" {
		return nil, apperrors.NewValidationError("Required fields: name, email, plan, paymentScreenshot")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperrors.NewValidationError("Invalid email format")
	}

	tier := domain.PlanTier(in.Plan.Name)
	if !tier.Valid() {
		return nil, apperrors.NewValidationError("Invalid plan name")
	}

	startDate, startErr := parseDate(in.Plan.StartDate)
	endDate, endErr := parseDate(in.Plan.EndDate)
	if startErr != nil || endErr != nil {
		return nil, apperrors.NewValidationError("Invalid plan dates")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.NewValidationError("End date must be after start date")
	}

	if _, err := s.customers.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("Customer with this email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	customer := &domain.CustomerRecord{
		Name:              in.Name,
		Email:             in.Email,
		Phone:             in.Phone,
		Location:          in.Location,
		Profession:        in.Profession,
		Plan:              domain.Plan{Name: tier, StartDate: startDate, EndDate: endDate},
		PaymentScreenshot: in.PaymentScreenshot,
		IsCompanyMember:   in.IsCompanyMember,
		AddedBy:           addedBy,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		// The unique index catches the check-then-insert race; surface the
		// same message as the pre-check.
		if _, ok := repository.UniqueViolation(err); ok {
			return nil, apperrors.NewConflict("Customer with this email already exists")
		}
		return nil, err
	}

	s.publishCustomerEvent(ctx, events.EventCustomerCreated, customer)
	return customer, nil
}

// PlanUpdate carries optional plan changes.
type PlanUpdate struct {
	Name      *string
	StartDate *string
	EndDate   *string
}

// UpdateCustomerInput carries a partial set of fields to change. Nil fields
// are left untouched; AddedBy is never updatable.
type UpdateCustomerInput struct {
	Name              *string
	Email             *string
	Phone             *string
	Location          *string
	Profession        *string
	Plan              *PlanUpdate
	PaymentScreenshot *string
	IsCompanyMember   *bool
}

// Update applies a partial update to the customer with the given id. The
// payload is validated before the record is looked up.
func (s *CustomerService) Update(ctx context.Context, id string, in UpdateCustomerInput) (*domain.CustomerRecord, error) {
	var tier *domain.PlanTier
	var startDate, endDate *time.Time
	if in.Plan != nil {
		if in.Plan.Name != nil {
			parsed := domain.PlanTier(*in.Plan.Name)
			if !parsed.Valid() {
				return nil, apperrors.NewValidationError("Invalid plan name")
			}
			tier = &parsed
		}
		if in.Plan.StartDate != nil {
			parsed, err := parseDate(*in.Plan.StartDate)
			if err != nil {
				return nil, apperrors.NewValidationError("Invalid plan dates")
			}
			startDate = &parsed
		}
		if in.Plan.EndDate != nil {
			parsed, err := parseDate(*in.Plan.EndDate)
			if err != nil {
				return nil, apperrors.NewValidationError("Invalid plan dates")
			}
			endDate = &parsed
		}
		if startDate != nil && endDate != nil && !endDate.After(*startDate) {
			return nil, apperrors.NewValidationError("End date must be after start date")
		}
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Customer not found")
		}
		return nil, err
	}

	if tier != nil {
		customer.Plan.Name = *tier
	}
	if startDate != nil {
		customer.Plan.StartDate = *startDate
	}
	if endDate != nil {
		customer.Plan.EndDate = *endDate
	}

	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != customer.Email {
			if existing, err := s.customers.GetByEmail(ctx, email); err == nil && existing.ID != customer.ID {
				return nil, apperrors.NewConflict("Email already exists for another customer")
			} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			customer.Email = email
		}
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Location != nil {
		customer.Location = *in.Location
	}
	if in.Profession != nil {
		customer.Profession = *in.Profession
	}
	if in.PaymentScreenshot != nil {
		customer.PaymentScreenshot = *in.PaymentScreenshot
	}
	if in.IsCompanyMember != nil {
		customer.IsCompanyMember = *in.IsCompanyMember
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Customer not found")
		}
		if _, ok := repository.UniqueViolation(err); ok {
			return nil, apperrors.NewConflict("Email already exists for another customer")
		}
		return nil, err
	}

	s.publishCustomerEvent(ctx, events.EventCustomerUpdated, customer)
	return customer, nil
}

// Delete removes the customer with the given id. No soft delete, no cascade.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Customer not found")
		}
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Customer not found")
		}
		return err
	}
	s.publishCustomerEvent(ctx, events.EventCustomerDeleted, customer)
	return nil
}

// Get returns a single customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.CustomerRecord, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Customer not found")
		}
		return nil, err
	}
	return customer, nil
}

// List returns customers matching the filter, newest first.
func (s *CustomerService) List(ctx context.Context, filter repository.CustomerFilter) ([]domain.CustomerRecord, error) {
	return s.customers.List(ctx, filter)
}

func (s *CustomerService) publishCustomerEvent(ctx context.Context, eventType events.EventType, customer *domain.CustomerRecord) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     customer.AddedBy,
		Timestamp: time.Now(),
		Payload: events.CustomerPayload{
			CustomerID: customer.ID,
			Email:      customer.Email,
			Plan:       customer.Plan.Name,
		},
	})
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
