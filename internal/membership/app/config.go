package app

import (
	"os"
	"strconv"
	"time"

	"github.com/slma/membership/pkg/jwtx"
)

type Config struct {
	Issuer     string // Optional: issuer claim for session tokens (default: slma-membership)
	JWTSecret  string // Required in prod: HS256 signing secret (random fallback in dev)
	SessionTTL time.Duration

	DatabaseFile string // Optional: path to SQLite database file (default: ./membership.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)

	SMTPHost     string // Optional: SMTP relay host; empty means log-only mail
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	FrontendURL  string // Base URL the emailed links point at

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:     getEnvOrDefault("MEMBERSHIP_ISSUER", "slma-membership"),
		JWTSecret:  os.Getenv("MEMBERSHIP_JWT_SECRET"),
		SessionTTL: getEnvDurationOrDefault("MEMBERSHIP_SESSION_TTL", jwtx.DefaultSessionTTL),

		DatabaseFile: getEnvOrDefault("MEMBERSHIP_DATABASE_FILE", "membership.db"),
		PepperFile:   getEnvOrDefault("MEMBERSHIP_PEPPER_FILE", "pepper"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "noreply@slma.org"),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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

	// Accept Go duration syntax ("1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Or plain integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
