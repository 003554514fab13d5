package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AdminID       string // Required: user ID of the single administrator
	APISecret     string // Shared secret for the Entitlement API (raw)
	APISecretHash string // Alternative: Argon2id PHC hash of the shared secret

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./access.db)
	WindowDays           int           // Optional: access window per approval in days (default: 30)
	PublicBaseURL        string        // Optional: base URL used when rendering delivery links
	NotifyBuffer         int           // Optional: notification queue depth (default: 64)
	ProofRetention       time.Duration // Optional: how long resolved proofs are kept (default: 90 days)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AdminID:       os.Getenv("ACCESS_ADMIN_ID"),
		APISecret:     os.Getenv("ACCESS_API_SECRET"),
		APISecretHash: os.Getenv("ACCESS_API_SECRET_HASH"),

		DatabaseFile:         getEnvOrDefault("ACCESS_DATABASE_FILE", "access.db"),
		WindowDays:           getEnvIntOrDefault("ACCESS_WINDOW_DAYS", 30),
		PublicBaseURL:        os.Getenv("PUBLIC_BASE_URL"),
		NotifyBuffer:         getEnvIntOrDefault("ACCESS_NOTIFY_BUFFER", 64),
		ProofRetention:       getEnvDurationOrDefault("ACCESS_PROOF_RETENTION", 90*24*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Window converts the configured day count into a duration.
func (c Config) Window() time.Duration {
	if c.WindowDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(c.WindowDays) * 24 * time.Hour
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
