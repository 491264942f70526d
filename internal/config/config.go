// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// HolidayAPIKey authenticates requests to the upstream holiday API. Required.
	HolidayAPIKey string

	// HolidayAPIBaseURL is the upstream holiday API endpoint.
	// Defaults to the Calendarific v2 API.
	HolidayAPIBaseURL string

	// HolidayAPITimeout bounds each upstream holiday request. Defaults to 10s.
	HolidayAPITimeout time.Duration

	// GeoAPIBaseURL is the reverse-geocoding endpoint.
	// Defaults to the BigDataCloud data API.
	GeoAPIBaseURL string

	// JWTSecret is the HMAC key used to verify bearer tokens. Required.
	JWTSecret string

	// MaxBodyBytes caps the size of accepted request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present, without
// overriding variables already set in the environment.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		HolidayAPIBaseURL: getEnv("HOLIDAY_API_BASE_URL", "https://calendarific.com/api/v2"),
		GeoAPIBaseURL:     getEnv("GEO_API_BASE_URL", "https://api.bigdatacloud.net/data"),
	}

	timeout, err := time.ParseDuration(getEnv("HOLIDAY_API_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid HOLIDAY_API_TIMEOUT: %w", err)
	}
	cfg.HolidayAPITimeout = timeout

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}
	cfg.MaxBodyBytes = maxBody

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.HolidayAPIKey = os.Getenv("HOLIDAY_API_KEY")
	if cfg.HolidayAPIKey == "" {
		missing = append(missing, "HOLIDAY_API_KEY")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
