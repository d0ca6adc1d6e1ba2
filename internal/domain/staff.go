package domain

import "time"

// StaffRole enumerates staff roles. Roles are fixed at registration and never
// change for the lifetime of the account.
type StaffRole string

const (
	StaffRoleAdder   StaffRole = "Adder"
	StaffRoleUpdater StaffRole = "Updater"
	StaffRoleAdmin   StaffRole = "Admin"
)

// Valid reports whether the role is one a staff account may register with.
// Admin is never a stored role.
func (r StaffRole) Valid() bool {
	return r == StaffRoleAdder || r == StaffRoleUpdater
}

// StaffAccount models an Adder or Updater operator. The Admin principal is
// not stored here; it is established purely by the admin login flow.
type StaffAccount struct {
	ID           string
	Username     string
	PasswordHash string
	Role         StaffRole
	Name         string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StaffWithStats augments an account with the number of customers the staff
// member has added, recomputed per request.
type StaffWithStats struct {
	StaffAccount
	CustomersAdded int64
}
