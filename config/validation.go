package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that everything the server cannot run without is set.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBHost == "" {
		errors = append(errors, "database host is required")
	}
	if cfg.DBUser == "" {
		errors = append(errors, "database user is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "database name is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, "db_password secret is required in production")
		}
		if cfg.JWTSecret == "" {
			errors = append(errors, "jwt_secret secret is required in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
