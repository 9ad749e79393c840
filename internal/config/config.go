package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Blob storage: "postgres" or "gridfs"
	BlobStore     string
	MongoURI      string
	MongoDatabase string

	// Mail
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	// Reminders
	RemindersEnabled  bool
	ReminderDailyHour int
	TimeZone          string

	// Server
	AppName     string
	AppURL      string
	AppEnv      string
	Port        string
	CORSOrigins string
	SentryDSN   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win over it.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "meeting_management"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h")),

		BlobStore:     getEnv("BLOB_STORE", "postgres"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "meeting_management_files"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@localhost"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Meeting Management"),

		RemindersEnabled:  parseBool(getEnv("REMINDERS_ENABLED", "true")),
		ReminderDailyHour: parseInt(getEnv("REMINDER_DAILY_HOUR", "9"), 9),
		TimeZone:          getEnv("TIMEZONE", "Europe/Istanbul"),

		AppName:     getEnv("APP_NAME", "Meeting Management"),
		AppURL:      getEnv("APP_URL", "http://localhost:3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location resolves TimeZone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("unknown timezone, using UTC", "timezone", c.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 720 * time.Hour
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
