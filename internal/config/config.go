package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Known environment names. The environment selects which repository variant
// the service layer binds to: test mode uses the in-memory fake and skips the
// database entirely.
const (
	EnvLocal      = "local"
	EnvTest       = "test"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Config holds all configuration for the application.
type Config struct {
	Env          string
	DBSource     string
	ServerPort   string
	MigrationURL string // file-based migrations, e.g. "file://./migrations"
	FrontendURL  string // CORS origin for the frontend
}

// LoadConfig loads configuration from environment variables.
// Path is the directory where .env might be located (e.g., ".").
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path + "/.env"); err != nil {
		log.Println("No .env file found or error loading, relying on OS environment variables")
	}

	env := getEnv("APP_ENV", EnvLocal)
	switch env {
	case EnvLocal, EnvTest, EnvStaging, EnvProduction:
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q: must be one of local, test, staging, production", env)
	}

	// DATABASE_URL wins when set; otherwise the DSN is assembled from parts.
	dbSource := getEnv("DATABASE_URL", "")
	if dbSource == "" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "postgres")
		dbName := getEnv("DB_NAME", "app")
		dbSSLMode := getEnv("DB_SSLMODE", "disable")

		dbSource = "postgresql://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSSLMode
	}

	cfg := &Config{
		Env:          env,
		DBSource:     dbSource,
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		MigrationURL: getEnv("MIGRATION_URL", "file://./migrations"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate enforces secure configuration in production: the database DSN
// must not carry known-insecure default credentials.
func (c *Config) validate() error {
	if !c.IsProduction() {
		return nil
	}
	for _, insecure := range []string{"postgres:postgres@", "postgres:password@", ":password@"} {
		if strings.Contains(c.DBSource, insecure) {
			return fmt.Errorf("default database credentials not allowed in production; set DATABASE_URL with secure credentials")
		}
	}
	return nil
}

// IsProduction reports whether the application runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsTest reports whether the application runs in test mode.
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}
