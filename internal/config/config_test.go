package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("PORT", "")
	t.Setenv("REMINDER_DAILY_HOUR", "")
	t.Setenv("BLOB_STORE", "")

	cfg := Load()

	assert.Equal(t, 720*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 9, cfg.ReminderDailyHour)
	assert.Equal(t, "postgres", cfg.BlobStore)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("REMINDER_DAILY_HOUR", "7")
	t.Setenv("REMINDERS_ENABLED", "false")
	t.Setenv("DB_NAME", "reports")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 7, cfg.ReminderDailyHour)
	assert.False(t, cfg.RemindersEnabled)
	assert.Contains(t, cfg.DSN(), "dbname=reports")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 720*time.Hour, parseDuration("bogus"))
	assert.Equal(t, 3, parseInt("x", 3))
	assert.False(t, parseBool("nope"))
	assert.True(t, parseBool("1"))
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{TimeZone: "Nowhere/Special"}
	assert.Equal(t, time.UTC, cfg.Location())
}
