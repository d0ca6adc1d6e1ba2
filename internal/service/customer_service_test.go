package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/events"
	"github.com/spec-kit/customer-service/internal/repository"
	"github.com/spec-kit/customer-service/internal/testutil"
)

func validCustomer() CreateCustomerInput {
	return CreateCustomerInput{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "555-0100",
		Plan: PlanInput{
			Name:      "Monthly",
			StartDate: "2026-01-01",
			EndDate:   "2026-02-01",
		},
		PaymentScreenshot: "https://cdn.example.com/receipts/jane.png",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateCustomerRecordsCaller(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)

	customer, err := svc.Create(context.Background(), validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if customer.AddedBy != "alice" {
		t.Fatalf("expected AddedBy alice, got %q", customer.AddedBy)
	}
	if customer.ID == "" {
		t.Fatal("expected assigned id")
	}
	if customer.Plan.Name != domain.PlanTierMonthly {
		t.Fatalf("unexpected plan %q", customer.Plan.Name)
	}

	stored, err := repo.GetByID(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.AddedBy != "alice" {
		t.Fatalf("persisted AddedBy = %q", stored.AddedBy)
	}
}

func TestCreateCustomerPublishesEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var received []events.Event
	dispatcher.Subscribe(events.EventCustomerCreated, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})
	svc := NewCustomerService(testutil.NewCustomerRepositoryStub(), dispatcher)

	customer, err := svc.Create(context.Background(), validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Actor != "alice" {
		t.Fatalf("actor = %q", received[0].Actor)
	}
	payload, ok := received[0].Payload.(events.CustomerPayload)
	if !ok || payload.CustomerID != customer.ID {
		t.Fatalf("unexpected payload %+v", received[0].Payload)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateCustomerInput)
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(in *CreateCustomerInput) { in.Name = "" },
			message: "Required fields: name, email, plan, paymentScreenshot",
		},
		{
			name:    "missing screenshot",
			mutate:  func(in *CreateCustomerInput) { in.PaymentScreenshot = "" },
			message: "Required fields: name, email, plan, paymentScreenshot",
		},
		{
			name:    "missing plan dates",
			mutate:  func(in *CreateCustomerInput) { in.Plan.EndDate = "" },
			message: "Required fields: name, email, plan, paymentScreenshot",
		},
		{
			name:    "bad email",
			mutate:  func(in *CreateCustomerInput) { in.Email = "jane at example" },
			message: "Invalid email format",
		},
		{
			name:    "unknown plan tier",
			mutate:  func(in *CreateCustomerInput) { in.Plan.Name = "Weekly" },
			message: "Invalid plan name",
		},
		{
			name:    "unparseable date",
			mutate:  func(in *CreateCustomerInput) { in.Plan.StartDate = "01/01/2026" },
			message: "Invalid plan dates",
		},
		{
			name: "end before start",
			mutate: func(in *CreateCustomerInput) {
				in.Plan.StartDate = "2026-02-01"
				in.Plan.EndDate = "2026-01-01"
			},
			message: "End date must be after start date",
		},
		{
			name: "end equals start",
			mutate: func(in *CreateCustomerInput) {
				in.Plan.StartDate = "2026-01-01"
				in.Plan.EndDate = "2026-01-01"
			},
			message: "End date must be after start date",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCustomerService(testutil.NewCustomerRepositoryStub(), nil)
			in := validCustomer()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in, "alice")
			wantStatus(t, err, http.StatusBadRequest)
			wantMessage(t, err, tc.message)
		})
	}
}

func TestCreateCustomerAcceptsRFC3339Dates(t *testing.T) {
	svc := NewCustomerService(testutil.NewCustomerRepositoryStub(), nil)

	in := validCustomer()
	in.Plan.StartDate = "2026-01-01T00:00:00Z"
	in.Plan.EndDate = "2026-07-01T00:00:00Z"
	customer, err := svc.Create(context.Background(), in, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if !customer.Plan.EndDate.Equal(want) {
		t.Fatalf("end date = %v, want %v", customer.Plan.EndDate, want)
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCustomer(), "alice"); err != nil {
		t.Fatalf("first create: %v", err)
	}

	in := validCustomer()
	in.Name = "Jane Clone"
	_, err := svc.Create(ctx, in, "bob")
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Customer with this email already exists")

	// Email matching is case-insensitive.
	in.Email = "JANE@Example.com"
	_, err = svc.Create(ctx, in, "bob")
	wantMessage(t, err, "Customer with this email already exists")
}

func TestCreateCustomerUniqueIndexBackstop(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	repo.CreateErr = &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"}
	svc := NewCustomerService(repo, nil)

	// The pre-check passes (store is empty) but the insert loses the race.
	_, err := svc.Create(context.Background(), validCustomer(), "alice")
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Customer with this email already exists")
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, UpdateCustomerInput{
		Phone: strPtr("555-0199"),
		Plan: &PlanUpdate{
			Name:    strPtr("Yearly"),
			EndDate: strPtr("2027-01-01"),
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "555-0199" {
		t.Fatalf("phone = %q", updated.Phone)
	}
	if updated.Plan.Name != domain.PlanTierYearly {
		t.Fatalf("plan = %q", updated.Plan.Name)
	}
	// Untouched fields survive.
	if updated.Name != "Jane Doe" || updated.Email != "jane@example.com" {
		t.Fatalf("unexpected record %+v", updated)
	}
	if updated.AddedBy != "alice" {
		t.Fatalf("AddedBy changed to %q", updated.AddedBy)
	}
}

func TestUpdateCustomerDateValidationOnlyWhenBothProvided(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving only the end date is accepted even against the stored start.
	if _, err := svc.Update(ctx, created.ID, UpdateCustomerInput{
		Plan: &PlanUpdate{EndDate: strPtr("2026-03-01")},
	}); err != nil {
		t.Fatalf("end-only update: %v", err)
	}

	// Supplying both in the same request enforces the ordering.
	_, err = svc.Update(ctx, created.ID, UpdateCustomerInput{
		Plan: &PlanUpdate{
			StartDate: strPtr("2026-05-01"),
			EndDate:   strPtr("2026-04-01"),
		},
	})
	wantMessage(t, err, "End date must be after start date")
}

func TestUpdateCustomerEmailCollision(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second := validCustomer()
	second.Email = "john@example.com"
	other, err := svc.Create(ctx, second, "alice")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	_, err = svc.Update(ctx, other.ID, UpdateCustomerInput{Email: strPtr("jane@example.com")})
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Email already exists for another customer")

	// Re-submitting the record's own email is not a collision.
	if _, err := svc.Update(ctx, first.ID, UpdateCustomerInput{Email: strPtr("jane@example.com")}); err != nil {
		t.Fatalf("self-email update: %v", err)
	}
}

func TestUpdateValidatesPlanBeforeLookup(t *testing.T) {
	svc := NewCustomerService(testutil.NewCustomerRepositoryStub(), nil)
	ctx := context.Background()

	// A malformed payload is rejected as 400 even when the id is unknown.
	_, err := svc.Update(ctx, "customer-404", UpdateCustomerInput{
		Plan: &PlanUpdate{EndDate: strPtr("not-a-date")},
	})
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Invalid plan dates")

	_, err = svc.Update(ctx, "customer-404", UpdateCustomerInput{
		Plan: &PlanUpdate{Name: strPtr("Weekly")},
	})
	wantMessage(t, err, "Invalid plan name")
}

func TestUpdateCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(testutil.NewCustomerRepositoryStub(), nil)

	_, err := svc.Update(context.Background(), "customer-404", UpdateCustomerInput{Name: strPtr("X")})
	wantStatus(t, err, http.StatusNotFound)
	wantMessage(t, err, "Customer not found")
}

func TestDeleteCustomer(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// A second delete of the same id reports not found.
	err = svc.Delete(ctx, created.ID)
	wantStatus(t, err, http.StatusNotFound)
	wantMessage(t, err, "Customer not found")
}

func TestListCustomersFilters(t *testing.T) {
	repo := testutil.NewCustomerRepositoryStub()
	svc := NewCustomerService(repo, nil)
	ctx := context.Background()

	monthly := validCustomer()
	if _, err := svc.Create(ctx, monthly, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	yearly := validCustomer()
	yearly.Email = "john@example.com"
	yearly.Name = "John Roe"
	yearly.Plan.Name = "Yearly"
	yearly.Plan.EndDate = "2027-01-01"
	if _, err := svc.Create(ctx, yearly, "bob"); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.List(ctx, repository.CustomerFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(all))
	}

	onlyYearly, err := svc.List(ctx, repository.CustomerFilter{PlanType: "Yearly"})
	if err != nil {
		t.Fatalf("list yearly: %v", err)
	}
	if len(onlyYearly) != 1 || onlyYearly[0].Name != "John Roe" {
		t.Fatalf("unexpected filtered result %+v", onlyYearly)
	}

	searched, err := svc.List(ctx, repository.CustomerFilter{Search: "jane"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(searched) != 1 || searched[0].Email != "jane@example.com" {
		t.Fatalf("unexpected search result %+v", searched)
	}
}
