package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware verifies session cookies and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Absent, expired and
// tampered tokens are indistinguishable to the client.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, ok := m.tokens.Verify(c.Cookies(CookieName))
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// RequireAdmin gates admin-only routes. It performs its own cookie
// verification so every failure, including a missing token, reads as a 403;
// admin routes never reveal an authentication/authorization distinction.
func (m *AuthMiddleware) RequireAdmin(c *fiber.Ctx) error {
	principal, ok := m.tokens.Verify(c.Cookies(CookieName))
	if !ok || !principal.IsAdmin() {
		return apperrors.NewForbidden("Admin access required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
