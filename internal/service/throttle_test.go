package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/customer-service/internal/testutil"
)

func newThrottledAuthService(store *testutil.ThrottleStoreStub, maxAttempts int) *AuthService {
	cfg := testutil.NewConfig()
	cfg.Auth.LoginMaxAttempts = maxAttempts
	cfg.Auth.LoginWindowSeconds = 60
	return NewAuthService(cfg, AuthDependencies{
		StaffRepo: testutil.NewStaffRepositoryStub(),
		Throttle:  NewLoginThrottle(store, cfg.Auth, zap.NewNop()),
	})
}

func TestLoginThrottledAfterMaxFailures(t *testing.T) {
	store := testutil.NewThrottleStoreStub()
	svc := newThrottledAuthService(store, 3)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, _, _, err := svc.Login(ctx, "alice", "wrong")
		wantStatus(t, err, http.StatusUnauthorized)
	}

	// Even the correct password is refused once the limit is hit.
	_, _, _, err := svc.Login(ctx, "alice", "pw1")
	wantStatus(t, err, http.StatusTooManyRequests)
	wantMessage(t, err, "Too many login attempts")

	// Other usernames are unaffected.
	_, _, _, err = svc.Login(ctx, "bob", "pw1")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLoginThrottleResetOnSuccess(t *testing.T) {
	store := testutil.NewThrottleStoreStub()
	svc := newThrottledAuthService(store, 3)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, _, _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
			t.Fatal("expected failed login")
		}
	}
	if _, _, _, err := svc.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login within limit: %v", err)
	}
	if count := store.Count("login_attempts:alice"); count != 0 {
		t.Fatalf("counter not cleared, count = %d", count)
	}

	// The window restarts from zero after the reset.
	for i := 0; i < 2; i++ {
		if _, _, _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
			t.Fatal("expected failed login")
		}
	}
	if _, _, _, err := svc.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	store := testutil.NewThrottleStoreStub()
	store.Err = errors.New("connection refused")
	cfg := testutil.NewConfig()
	cfg.Auth.LoginMaxAttempts = 1
	throttle := NewLoginThrottle(store, cfg.Auth, zap.NewNop())

	svc := NewAuthService(cfg, AuthDependencies{
		StaffRepo: testutil.NewStaffRepositoryStub(),
		Throttle:  throttle,
	})
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Store failures never surface to callers and never block logins.
	if _, _, _, err := svc.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatal("expected failed login")
	}
	if _, _, _, err := svc.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login with store down: %v", err)
	}
}

func TestThrottleWindowStartsOnFirstFailure(t *testing.T) {
	store := testutil.NewThrottleStoreStub()
	cfg := testutil.NewConfig()
	cfg.Auth.LoginMaxAttempts = 5
	cfg.Auth.LoginWindowSeconds = 60
	throttle := NewLoginThrottle(store, cfg.Auth, zap.NewNop())
	ctx := context.Background()

	throttle.RecordFailure(ctx, "alice")
	throttle.RecordFailure(ctx, "alice")

	if window := store.Window("login_attempts:alice"); window != time.Minute {
		t.Fatalf("window = %v", window)
	}
	if count := store.Count("login_attempts:alice"); count != 2 {
		t.Fatalf("count = %d", count)
	}
	if !throttle.Allow(ctx, "alice") {
		t.Fatal("under the limit must be allowed")
	}
}
