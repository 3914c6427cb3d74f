package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If TEST_DB_* variables are not set, returns a Config with an in-memory SQLite database
// so tests can run without a MySQL server
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.Driver = DriverSQLite
	cfg.Database.SQLitePath = "coursehub_test?mode=memory&cache=shared"
	cfg.JWT.Secret = "test-secret"
	cfg.Media.BasePath = os.TempDir()

	if secret := os.Getenv("TEST_JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}

	dbPort, err := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	cfg.Database = DatabaseConfig{
		Driver:   DriverMySQL,
		Host:     dbHost,
		Port:     dbPort,
		User:     os.Getenv("TEST_DB_USER"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		DBName:   os.Getenv("TEST_DB_NAME"),
	}

	return cfg, nil
}
