package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/customer-service/internal/api/dto"
	"github.com/spec-kit/customer-service/internal/auth"
	"github.com/spec-kit/customer-service/internal/domain"
	"github.com/spec-kit/customer-service/internal/service"
)

// AuthHandler exposes the login, registration and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "Username and password are required")
	}

	staff, token, _, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(auth.SessionCookie(token, h.auth.TokenManager().TTL()))
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data":    staffProfile(staff),
	})
}

// AdminLogin handles POST /admin-login. The secret code check runs first and
// short-circuits before credentials are compared.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}
	if req.Username == "" || req.Password == "" || req.SecretCode == "" {
		return fiber.NewError(http.StatusBadRequest, "Username, password, and secret code are required")
	}

	token, _, err := h.auth.AdminLogin(c.Context(), req.Username, req.Password, req.SecretCode)
	if err != nil {
		return err
	}

	c.Cookie(auth.SessionCookie(token, h.auth.TokenManager().TTL()))
	return c.JSON(fiber.Map{
		"message": "Admin login successful",
		"data": dto.AdminProfile{
			Username: auth.AdminUsername,
			Role:     string(domain.StaffRoleAdmin),
		},
	})
}

// Register handles POST /register. Registration never issues a token; the
// caller logs in separately.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}

	staff, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		SecretCode: req.SecretCode,
		Name:       req.Name,
		Email:      req.Email,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Staff registered successfully",
		"data":    staffProfile(staff),
	})
}

// Me handles GET /me. The response is always a {user} envelope; failures
// surface as {user: null} and never escape to the error middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := h.auth.TokenManager().Verify(c.Cookies(auth.CookieName))
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"user": nil})
	}
	if principal.Kind != auth.PrincipalKindStaff {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"user": nil})
	}

	staff, err := h.auth.CurrentStaff(c.Context(), principal)
	if err != nil {
		status := http.StatusInternalServerError
		if de := domainStatus(err); de != 0 {
			status = de
		}
		return c.Status(status).JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": staffProfile(staff)})
}

// AdminMe handles GET /admin-me.
func (h *AuthHandler) AdminMe(c *fiber.Ctx) error {
	principal, ok := h.auth.TokenManager().Verify(c.Cookies(auth.CookieName))
	if !ok || !principal.IsAdmin() {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": dto.AdminProfile{
		Username: auth.AdminUsername,
		Role:     string(domain.StaffRoleAdmin),
	}})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(auth.ClearSessionCookie())
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

func staffProfile(staff *domain.StaffAccount) dto.StaffProfile {
	return dto.StaffProfile{
		Username: staff.Username,
		Role:     string(staff.Role),
		Name:     staff.Name,
		Email:    staff.Email,
	}
}
