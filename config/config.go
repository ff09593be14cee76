package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// DBPath is the sqlite file used when DBDriver is "sqlite"
	DBPath        string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Image storage
	S3BucketName    string
	AWSRegion       string
	ImagePublicBase string

	// Reverse geocoding
	GeocoderURL       string
	GeocoderUserAgent string

	CORSOrigins []string
	CartTTL     time.Duration
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		loadFrom(cfg, os.Getenv)
	case Development, Test:
		// A missing .env is fine; real environment variables still apply
		_ = godotenv.Load()
		loadFrom(cfg, lookup)
	case Production:
		loadFrom(cfg, readSecretOrEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFrom fills cfg using get to resolve each key, applying defaults for anything unset
func loadFrom(cfg *Config, get func(string) string) {
	value := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = value("SERVER_PORT", "5080")
	cfg.ServerHost = value("SERVER_HOST", "0.0.0.0")

	cfg.DBDriver = value("DB_DRIVER", "postgres")
	cfg.DBHost = value("DB_HOST", "localhost")
	cfg.DBPort = value("DB_PORT", "5432")
	cfg.DBUser = value("DB_USER", "postgres")
	cfg.DBPassword = get("DB_PASSWORD")
	cfg.DBName = value("DB_NAME", "mummysfood")
	cfg.DBSSLMode = value("DB_SSL_MODE", "disable")
	cfg.DBPath = value("DB_PATH", "mummysfood.db")
	cfg.MigrationsDir = get("MIGRATIONS_DIR")

	cfg.RedisHost = value("REDIS_HOST", "localhost")
	cfg.RedisPort = value("REDIS_PORT", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD")
	cfg.RedisURL = get("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.JWTSecret = get("JWT_SECRET")
	cfg.TokenTTL = parseDuration(get("TOKEN_TTL"), 24*time.Hour)

	cfg.S3BucketName = value("S3_BUCKET_NAME", "mummysfood-images")
	cfg.AWSRegion = value("AWS_REGION", "us-east-1")
	cfg.ImagePublicBase = get("IMAGE_PUBLIC_BASE_URL")

	cfg.GeocoderURL = value("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	cfg.GeocoderUserAgent = value("GEOCODER_USER_AGENT", "mummysfood-backend/1.0")

	cfg.CORSOrigins = splitList(value("CORS_ORIGINS", "http://localhost:3000"))
	cfg.CartTTL = parseDuration(get("CART_TTL"), 24*time.Hour)
}

// lookup resolves a key from the environment, falling back to a Docker secret
// named after the lower-cased key (DB_PASSWORD -> db_password)
func lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(strings.ToLower(key))
}

// readSecretOrEnv prefers Docker secrets, the production source of truth
func readSecretOrEnv(key string) string {
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return os.Getenv(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
