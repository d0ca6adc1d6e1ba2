package dto

// LoginRequest payload for staff login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginRequest payload for the shared-secret admin login.
type AdminLoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	SecretCode string `json:"secretCode"`
}

// RegisterRequest payload for staff registration.
type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	SecretCode string `json:"secretCode"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// StaffProfile is the public projection of a staff account. The password
// hash is never serialized.
type StaffProfile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// AdminProfile is the public projection of the admin principal.
type AdminProfile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
