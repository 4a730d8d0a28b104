package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("TOAST_TTL", "")
	cfg := Load()

	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.ToastTTL)
	assert.Empty(t, cfg.BackupCron)
	assert.Empty(t, cfg.ESAddrs())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Firestore")
	t.Setenv("TOAST_TTL", "2s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "oops")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "tb")
	t.Setenv("DB_SSLMODE", "require")
	cfg := Load()

	assert.Equal(t, "firestore", cfg.StorageBackend)
	assert.Equal(t, 2*time.Second, cfg.ToastTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, "postgres://u:p@db:5433/tb?sslmode=require", cfg.PostgresDSN())
}
