package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		BackendBaseURL:     "http://localhost:8081",
		BackendTimeout:     time.Second,
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
		AuditQueueSize:     16,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:8081")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2, cfg.BackendRetryMax)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.RunMigrations)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 256, cfg.AuditQueueSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_ADDR=:9191\n"), 0o600))
	t.Setenv("APP_ADDR", "")
	os.Unsetenv("APP_ADDR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing backend", func(c *Config) { c.BackendBaseURL = "" }, false},
		{"relative backend", func(c *Config) { c.BackendBaseURL = "/api" }, false},
		{"missing secret", func(c *Config) { c.JWTSecret = " " }, false},
		{"weak secret in production", func(c *Config) { c.Environment = "production" }, false},
		{"strong secret in production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "0123456789abcdef0123456789abcdef"
		}, true},
		{"small body limit", func(c *Config) { c.MaxBodyBytes = 10 }, false},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, false},
		{"negative retries", func(c *Config) { c.BackendRetryMax = -1 }, false},
		{"zero queue", func(c *Config) { c.AuditQueueSize = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
