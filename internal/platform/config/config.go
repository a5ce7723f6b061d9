package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string        `env:"APP_ADDR" envDefault:":8080"`
	Environment        string        `env:"APP_ENV" envDefault:"development"`
	BackendBaseURL     string        `env:"BACKEND_BASE_URL"`
	BackendTimeout     time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	BackendRetryMax    int           `env:"BACKEND_RETRY_MAX" envDefault:"2"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
	DataEncryptionKey  string        `env:"DATA_ENCRYPTION_KEY"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	MetricsEnabled     bool          `env:"METRICS_ENABLED" envDefault:"true"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile            string        `env:"LOG_FILE"`
	FrontendDir        string        `env:"FRONTEND_DIR" envDefault:"frontend/dist"`
	AuditQueueSize     int           `env:"AUDIT_QUEUE_SIZE" envDefault:"256"`
}

// Load reads an optional dotenv file, then the process environment. Variables
// already set in the environment win over the file.
func Load(envPath string) (Config, error) {
	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BackendBaseURL) == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	u, err := url.Parse(c.BackendBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute URL")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Production() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.BackendRetryMax < 0 {
		return fmt.Errorf("BACKEND_RETRY_MAX must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.AuditQueueSize <= 0 {
		return fmt.Errorf("AUDIT_QUEUE_SIZE must be positive")
	}
	return nil
}
