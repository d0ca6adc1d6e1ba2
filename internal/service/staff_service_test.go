package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/spec-kit/customer-service/internal/testutil"
)

func seedStaff(t *testing.T, auth *AuthService, username, role, secret string) {
	t.Helper()
	in := validRegistration()
	in.Username = username
	in.Email = username + "@example.com"
	in.Role = role
	in.SecretCode = secret
	if _, err := auth.Register(context.Background(), in); err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
}

func TestListWithStatsCountsPerStaff(t *testing.T) {
	staffRepo := testutil.NewStaffRepositoryStub()
	customerRepo := testutil.NewCustomerRepositoryStub()
	authSvc := newAuthService(staffRepo)
	customerSvc := NewCustomerService(customerRepo, nil)
	staffSvc := NewStaffService(staffRepo, customerRepo, nil)
	ctx := context.Background()

	seedStaff(t, authSvc, "alice", "Adder", "adder-secret")
	seedStaff(t, authSvc, "bob", "Updater", "updater-secret")

	for _, email := range []string{"c1@example.com", "c2@example.com"} {
		in := validCustomer()
		in.Email = email
		if _, err := customerSvc.Create(ctx, in, "alice"); err != nil {
			t.Fatalf("create customer: %v", err)
		}
	}

	listed, err := staffSvc.ListWithStats(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 staff, got %d", len(listed))
	}
	counts := map[string]int64{}
	for _, entry := range listed {
		counts[entry.Username] = entry.CustomersAdded
	}
	if counts["alice"] != 2 || counts["bob"] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestDeleteStaffKeepsCustomers(t *testing.T) {
	staffRepo := testutil.NewStaffRepositoryStub()
	customerRepo := testutil.NewCustomerRepositoryStub()
	authSvc := newAuthService(staffRepo)
	customerSvc := NewCustomerService(customerRepo, nil)
	staffSvc := NewStaffService(staffRepo, customerRepo, nil)
	ctx := context.Background()

	seedStaff(t, authSvc, "alice", "Adder", "adder-secret")
	created, err := customerSvc.Create(ctx, validCustomer(), "alice")
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	alice, err := staffRepo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := staffSvc.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete staff: %v", err)
	}

	// The customer added by the deleted account survives, provenance intact.
	remaining, err := customerSvc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if remaining.AddedBy != "alice" {
		t.Fatalf("AddedBy = %q", remaining.AddedBy)
	}
}

func TestDeleteStaffNotFound(t *testing.T) {
	staffRepo := testutil.NewStaffRepositoryStub()
	staffSvc := NewStaffService(staffRepo, testutil.NewCustomerRepositoryStub(), nil)

	err := staffSvc.Delete(context.Background(), "staff-404")
	wantStatus(t, err, http.StatusNotFound)
	wantMessage(t, err, "Staff member not found")
}

func TestComputeAdminStats(t *testing.T) {
	staffRepo := testutil.NewStaffRepositoryStub()
	customerRepo := testutil.NewCustomerRepositoryStub()
	authSvc := newAuthService(staffRepo)
	customerSvc := NewCustomerService(customerRepo, nil)
	statsSvc := NewStatsService(staffRepo, customerRepo)
	ctx := context.Background()

	seedStaff(t, authSvc, "alice", "Adder", "adder-secret")
	seedStaff(t, authSvc, "bob", "Updater", "updater-secret")

	active := validCustomer()
	active.Plan.EndDate = "2026-12-01"
	if _, err := customerSvc.Create(ctx, active, "alice"); err != nil {
		t.Fatalf("create active: %v", err)
	}
	expired := validCustomer()
	expired.Email = "old@example.com"
	expired.Plan.Name = "Yearly"
	expired.Plan.StartDate = "2025-01-01"
	expired.Plan.EndDate = "2025-06-01"
	if _, err := customerSvc.Create(ctx, expired, "alice"); err != nil {
		t.Fatalf("create expired: %v", err)
	}

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	stats, err := statsSvc.Compute(ctx, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if stats.TotalCustomers != 2 || stats.ActiveCustomers != 1 || stats.ExpiredCustomers != 1 {
		t.Fatalf("customer counts %+v", stats)
	}
	if stats.TotalStaff != 2 || stats.TotalAdders != 1 || stats.TotalUpdaters != 1 {
		t.Fatalf("staff counts %+v", stats)
	}
	if len(stats.RevenueByPlan) != 2 {
		t.Fatalf("plan counts %+v", stats.RevenueByPlan)
	}
	// Sorted by plan name.
	if stats.RevenueByPlan[0].PlanName != "Monthly" || stats.RevenueByPlan[1].PlanName != "Yearly" {
		t.Fatalf("plan order %+v", stats.RevenueByPlan)
	}
}
