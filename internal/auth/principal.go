package auth

import "github.com/spec-kit/customer-service/internal/domain"

// AdminUsername is the reserved username carried by admin session tokens.
// No staff account ever holds it; the admin login flow is the only issuer.
const AdminUsername = "admin"

// PrincipalKind tags the closed set of authenticated caller variants.
type PrincipalKind string

const (
	PrincipalKindStaff PrincipalKind = "STAFF"
	PrincipalKindAdmin PrincipalKind = "ADMIN"
)

// Principal represents the authenticated caller. The kind is decided once at
// token-verification time so downstream code matches on it rather than
// re-checking the username string.
type Principal struct {
	Kind     PrincipalKind
	StaffID  string
	Role     domain.StaffRole
	Username string
}

// IsAdmin reports whether the caller is the admin principal.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Kind == PrincipalKindAdmin
}

// PrincipalFromClaims resolves verified claims to a principal.
func PrincipalFromClaims(claims *Claims) *Principal {
	if claims.Username == AdminUsername {
		return &Principal{
			Kind:     PrincipalKindAdmin,
			Role:     domain.StaffRoleAdmin,
			Username: AdminUsername,
		}
	}
	return &Principal{
		Kind:     PrincipalKindStaff,
		StaffID:  claims.UserID,
		Role:     claims.Role,
		Username: claims.Username,
	}
}
