package config

import (
	"os"
	"strings"
)

// Environment is the deployment the process runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads APP_ENV, then ENV. CI=true wins over both.
// An unrecognised name is returned as is so LoadConfig can reject it.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	name := os.Getenv("APP_ENV")
	if name == "" {
		name = os.Getenv("ENV")
	}
	switch env := Environment(strings.ToLower(strings.TrimSpace(name))); env {
	case "", "dev", Development:
		return Development
	case "prod", Production:
		return Production
	default:
		return env
	}
}

// IsProduction reports whether secrets come from files and Redis is mandatory
func IsProduction() bool {
	return GetEnvironment() == Production
}
