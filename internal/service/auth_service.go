package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/customer-service/internal/auth"
	"github.com/spec-kit/customer-service/internal/config"
	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/events"
	"github.com/spec-kit/customer-service/internal/repository"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService coordinates registration and the staff/admin login flows.
type AuthService struct {
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	throttle   *LoginThrottle
	dispatcher events.Dispatcher
	bcryptCost int
	authCfg    config.AuthConfig
	adminCfg   config.AdminConfig
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	StaffRepo  repository.StaffRepository
	Throttle   *LoginThrottle
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		staff:      deps.StaffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		authCfg:    cfg.Auth,
		adminCfg:   cfg.Admin,
	}
}

// RegisterInput carries the staff registration payload.
type RegisterInput struct {
	Username   string
	Password   string
	Role       string
	SecretCode string
	Name       string
	Email      string
}

// Register creates a new staff account. The chosen role's shared secret must
// be presented; no secret authorizes both roles. No token is issued here.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.StaffAccount, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Password == "" || in.Role == "" || in.SecretCode == "" || in.Name == "" || in.Email == "" {
		return nil, apperrors.NewValidationError("All fields are required")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperrors.NewValidationError("Invalid email format")
	}
	// The admin identity is convention-based on this username; a staff
	// account holding it would be mistaken for the admin at verification.
	if in.Username == auth.AdminUsername {
		return nil, apperrors.NewConflict("Username already exists")
	}

	expected := s.authCfg.SecretForRole(in.Role)
	if expected == "" || subtle.ConstantTimeCompare([]byte(in.SecretCode), []byte(expected)) != 1 {
		return nil, apperrors.NewForbidden("Invalid secret code for " + in.Role)
	}

	if _, err := s.staff.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.NewConflict("Username already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.staff.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("Email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	staff := &domain.StaffAccount{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         domain.StaffRole(in.Role),
		Name:         in.Name,
		Email:        in.Email,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		// The unique index is the backstop for the check-then-insert race.
		if constraint, ok := repository.UniqueViolation(err); ok {
			if strings.Contains(constraint, "username") {
				return nil, apperrors.NewConflict("Username already exists")
			}
			return nil, apperrors.NewConflict("Email already exists")
		}
		return nil, err
	}

	s.publishStaffEvent(ctx, events.EventStaffRegistered, staff)
	return staff, nil
}

// Login authenticates a staff account and issues a session token. Lookup and
// password failures are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.StaffAccount, string, time.Time, error) {
	if !s.throttle.Allow(ctx, username) {
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("Too many login attempts")
	}

	staff, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.throttle.RecordFailure(ctx, username)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		s.throttle.RecordFailure(ctx, username)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.Role, staff.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.throttle.Reset(ctx, username)
	return staff, token, exp, nil
}

// AdminLogin verifies the three configured admin secrets and issues an admin
// token. The secret code is compared first and short-circuits before the
// credential comparison.
func (s *AuthService) AdminLogin(ctx context.Context, username, password, secretCode string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(secretCode), []byte(s.adminCfg.Secret)) != 1 {
		return "", time.Time{}, apperrors.NewForbidden("Invalid admin secret code")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminCfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminCfg.Password)) == 1
	if !userOK || !passOK {
		return "", time.Time{}, apperrors.NewUnauthorized("Invalid admin credentials")
	}

	return s.tokenMgr.GenerateToken(auth.AdminUsername, domain.StaffRoleAdmin, auth.AdminUsername)
}

// CurrentStaff resolves a staff principal to its stored account.
func (s *AuthService) CurrentStaff(ctx context.Context, principal *auth.Principal) (*domain.StaffAccount, error) {
	staff, err := s.staff.GetByID(ctx, principal.StaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Staff account not found")
		}
		return nil, err
	}
	return staff, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishStaffEvent(ctx context.Context, eventType events.EventType, staff *domain.StaffAccount) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     staff.Username,
		Timestamp: time.Now(),
		Payload: events.StaffPayload{
			StaffID:  staff.ID,
			Username: staff.Username,
			Role:     staff.Role,
		},
	})
}
