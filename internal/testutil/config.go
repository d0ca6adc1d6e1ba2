package testutil

import "github.com/spec-kit/customer-service/internal/config"

// NewConfig returns a config with deterministic secrets for tests. Bcrypt
// runs at minimum cost to keep test time down.
func NewConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-signing-key",
			TokenTTLHours: 24,
			BcryptCost:    4,
			AdderSecret:   "adder-secret",
			UpdaterSecret: "updater-secret",
		},
		Admin: config.AdminConfig{
			Username: "root",
			Password: "root-password",
			Secret:   "admin-secret",
		},
	}
}
