// Package config loads the immutable runtime configuration of the service
// from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and shared by pointer; it is never mutated
// afterwards.
type Config struct {
	// Port is the HTTP listen port.
	Port string
	// DatabaseURL is the PostgreSQL connection string. Required.
	DatabaseURL string
	// DBMaxConns caps the size of the connection pool.
	DBMaxConns int
	// JWTSecret signs and verifies session tokens. Required.
	JWTSecret string
	// LogLevel is a zap level name.
	LogLevel string
	// CORSOrigins is the comma separated list of allowed origins.
	CORSOrigins string
	// MQTTURL enables the MQTT event publisher when set, e.g. tcp://broker:1883/todos.
	MQTTURL string
	// MQTTClientID identifies the publisher to the broker.
	MQTTClientID string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// LoadENV loads variables from a .env file in the working directory. A
// missing file is not an error; variables already set are not overridden.
func LoadENV() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment. Every missing or
// malformed variable is reported in a single error.
func Load() (*Config, error) {
	var problems []string

	cfg := &Config{
		Port:            getOptionalEnv("PORT", "3000"),
		DatabaseURL:     getRequiredEnv("DATABASE_URL", &problems),
		DBMaxConns:      getOptionalEnvInt("DB_MAX_CONNS", 10, &problems),
		JWTSecret:       getRequiredEnv("JWT_SECRET", &problems),
		LogLevel:        getOptionalEnv("LOG_LEVEL", "info"),
		CORSOrigins:     getOptionalEnv("CORS_ORIGINS", "*"),
		MQTTURL:         getOptionalEnv("MQTT_URL", ""),
		MQTTClientID:    getOptionalEnv("MQTT_CLIENT_ID", "todo-api"),
		ShutdownTimeout: getOptionalEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &problems),
	}

	if cfg.DBMaxConns < 1 {
		problems = append(problems, fmt.Sprintf("DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(problems, "\n- "))
	}
	return cfg, nil
}

func getRequiredEnv(key string, problems *[]string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		*problems = append(*problems, fmt.Sprintf("missing required environment variable: %s", key))
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, problems *[]string) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected integer, got %q", key, raw))
		return defaultValue
	}
	return value
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, problems *[]string) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected duration, got %q", key, raw))
		return defaultValue
	}
	return value
}
