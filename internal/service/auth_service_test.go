package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/customer-service/internal/auth"
	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/testutil"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

func newAuthService(staff *testutil.StaffRepositoryStub) *AuthService {
	return NewAuthService(testutil.NewConfig(), AuthDependencies{StaffRepo: staff})
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:   "alice",
		Password:   "pw1",
		Role:       "Adder",
		SecretCode: "adder-secret",
		Name:       "Alice",
		Email:      "alice@example.com",
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.HTTPStatus != status {
		t.Fatalf("expected status %d, got %d (%s)", status, domainErr.HTTPStatus, domainErr.Message)
	}
}

func wantMessage(t *testing.T, err error, message string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, domainErr.Message)
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	staff, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if staff.ID == "" {
		t.Fatal("expected assigned id")
	}
	if staff.Role != domain.StaffRoleAdder {
		t.Fatalf("expected Adder role, got %s", staff.Role)
	}
	if staff.PasswordHash == "pw1" || staff.PasswordHash == "" {
		t.Fatal("password must be stored as a hash")
	}
	if err := auth.ComparePassword(staff.PasswordHash, "pw1"); err != nil {
		t.Fatalf("stored hash must verify against the password: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	in := validRegistration()
	in.Email = ""
	_, err := svc.Register(context.Background(), in)
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "All fields are required")
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	in := validRegistration()
	in.Email = "not-an-email"
	_, err := svc.Register(context.Background(), in)
	wantMessage(t, err, "Invalid email format")
}

func TestRegisterSecretPerRole(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	// Updater secret does not authorize the Adder role.
	in := validRegistration()
	in.SecretCode = "updater-secret"
	_, err := svc.Register(context.Background(), in)
	wantStatus(t, err, http.StatusForbidden)
	wantMessage(t, err, "Invalid secret code for Adder")

	in = validRegistration()
	in.Role = "Manager"
	in.SecretCode = "adder-secret"
	_, err = svc.Register(context.Background(), in)
	wantStatus(t, err, http.StatusForbidden)
}

func TestRegisterDuplicateUsernameAndEmail(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := validRegistration()
	in.Email = "other@example.com"
	_, err := svc.Register(ctx, in)
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Username already exists")

	in = validRegistration()
	in.Username = "alice2"
	_, err = svc.Register(ctx, in)
	wantMessage(t, err, "Email already exists")
}

func TestRegisterReservesAdminUsername(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	in := validRegistration()
	in.Username = "admin"
	_, err := svc.Register(context.Background(), in)
	wantStatus(t, err, http.StatusBadRequest)
	wantMessage(t, err, "Username already exists")
}

func TestLoginSuccessIssuesVerifiableToken(t *testing.T) {
	repo := testutil.NewStaffRepositoryStub()
	svc := newAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	staff, token, _, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if staff.Username != "alice" {
		t.Fatalf("unexpected account %q", staff.Username)
	}

	principal, ok := svc.TokenManager().Verify(token)
	if !ok {
		t.Fatal("issued token must verify")
	}
	if principal.Kind != auth.PrincipalKindStaff || principal.Role != domain.StaffRoleAdder || principal.Username != "alice" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestLoginGenericFailures(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown username and wrong password read identically so the caller
	// cannot probe which usernames exist.
	_, _, _, unknownErr := svc.Login(ctx, "mallory", "pw1")
	wantStatus(t, unknownErr, http.StatusUnauthorized)
	wantMessage(t, unknownErr, "Invalid credentials")

	_, _, _, wrongErr := svc.Login(ctx, "alice", "wrong")
	wantStatus(t, wrongErr, http.StatusUnauthorized)
	wantMessage(t, wrongErr, "Invalid credentials")
}

func TestAdminLoginSecretCheckedFirst(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())
	ctx := context.Background()

	// Correct credentials with a wrong secret short-circuit at the secret.
	_, _, err := svc.AdminLogin(ctx, "root", "root-password", "wrong")
	wantStatus(t, err, http.StatusForbidden)
	wantMessage(t, err, "Invalid admin secret code")

	_, _, err = svc.AdminLogin(ctx, "root", "wrong", "admin-secret")
	wantStatus(t, err, http.StatusUnauthorized)
	wantMessage(t, err, "Invalid admin credentials")

	token, _, err := svc.AdminLogin(ctx, "root", "root-password", "admin-secret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	principal, ok := svc.TokenManager().Verify(token)
	if !ok || !principal.IsAdmin() {
		t.Fatalf("expected verified admin principal, got %+v ok=%v", principal, ok)
	}
}

func TestCurrentStaffMissingAccount(t *testing.T) {
	svc := newAuthService(testutil.NewStaffRepositoryStub())

	_, err := svc.CurrentStaff(context.Background(), &auth.Principal{
		Kind:    auth.PrincipalKindStaff,
		StaffID: "staff-404",
	})
	wantStatus(t, err, http.StatusNotFound)
}
