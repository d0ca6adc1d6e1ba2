package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/customer-service/internal/domain"
	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

// Operation names a permission-gated action.
type Operation string

const (
	OpCustomerList   Operation = "customer.list"
	OpCustomerGet    Operation = "customer.get"
	OpCustomerCreate Operation = "customer.create"
	OpCustomerUpdate Operation = "customer.update"
	OpCustomerDelete Operation = "customer.delete"
)

// requirement describes what a gated operation demands of the caller. An
// empty role set means any authenticated principal passes.
type requirement struct {
	roles  []domain.StaffRole
	denied string
}

// permissions is the declarative (operation, role) table consulted by
// Require. Roles are immutable post-registration, so there is no escalation
// path to account for.
var permissions = map[Operation]requirement{
	OpCustomerList:   {},
	OpCustomerGet:    {},
	OpCustomerCreate: {roles: []domain.StaffRole{domain.StaffRoleAdder}, denied: "Access denied. Adder role required."},
	OpCustomerUpdate: {roles: []domain.StaffRole{domain.StaffRoleUpdater}, denied: "Access denied. Updater role required."},
	OpCustomerDelete: {roles: []domain.StaffRole{domain.StaffRoleUpdater}, denied: "Access denied. Updater role required."},
}

// Require returns a handler enforcing the permission table entry for op.
// It expects AuthMiddleware.Handle to have run first.
func Require(op Operation) fiber.Handler {
	req := permissions[op]
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if len(req.roles) == 0 {
			return c.Next()
		}
		if principal.Kind != PrincipalKindStaff {
			return apperrors.NewForbidden(req.denied)
		}
		for _, role := range req.roles {
			if principal.Role == role {
				return c.Next()
			}
		}
		return apperrors.NewForbidden(req.denied)
	}
}
