package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	Port     string
	LogLevel string

	StorageBackend   string
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	Admin           ledger.Identity
	JWTSecret       string
	OperatorWorkers int

	// Optional collaborators. Empty means the in-process fallback is used.
	NATSURL       string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

// ProcessEnvironmentVariables reads the configuration from the environment,
// after loading a .env file when one is present. Every problem found is
// reported in the returned error.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             getEnvOrDefault("PORT", "9446"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		StorageBackend:   getEnvOrDefault("STORAGE_BACKEND", StorageBackendPostgres),
		PostgresAddress:  getEnvOrDefault("POSTGRES_ADDRESS", "localhost"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5433"),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "postgres"),
		PostgresUsername: getEnvOrDefault("POSTGRES_USERNAME", "postgres"),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", "testpassword"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		NATSURL:          os.Getenv("NATS_URL"),
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
	}
	var errs []error

	if env.StorageBackend != StorageBackendPostgres && env.StorageBackend != StorageBackendMemory {
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendPostgres, StorageBackendMemory, env.StorageBackend))
	}

	admin, err := ledger.ParseIdentity(os.Getenv("LEDGER_ADMIN"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("LEDGER_ADMIN: %w", err))
	case admin.IsZero():
		errs = append(errs, fmt.Errorf("LEDGER_ADMIN must be non-zero"))
	default:
		env.Admin = admin
	}

	if env.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET is required"))
	}

	workers, err := parseInt("OPERATOR_WORKERS", 1)
	if err != nil {
		errs = append(errs, err)
	} else if workers < 1 {
		errs = append(errs, fmt.Errorf("OPERATOR_WORKERS must be at least 1"))
	} else {
		env.OperatorWorkers = workers
	}

	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, err)
	} else {
		env.RedisDB = redisDB
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return &env, nil
}

// PostgresDSN is the lib/pq connection string for the configured database.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" + c.PostgresPassword + "@" + c.PostgresAddress + ":" + c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
