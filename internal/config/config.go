// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"PMC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PMC_SERVER_PORT" envDefault:"3000"`
	Env        string `env:"PMC_ENV" envDefault:"development"`
	LogLevel   string `env:"PMC_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"PMC_LOG_FORMAT" envDefault:"text"` // text or json
	AccessLogs bool   `env:"PMC_ACCESS_LOGS" envDefault:"false"`

	// Storage paths
	SubmissionsPath string `env:"PMC_SUBMISSIONS_PATH" envDefault:"./data/submissions.json"`
	SessionDBPath   string `env:"PMC_SESSION_DB_PATH" envDefault:"./data/sessions.db"`

	// Session and CSRF secret, minimum 32 bytes
	SessionSecret string `env:"PMC_SESSION_SECRET,required"`

	// Admin credentials. Deliberately not required at load time: a missing
	// credential pair is reported as a configuration error on the login
	// path, distinct from a wrong-credential failure.
	AdminEmail        string `env:"PMC_ADMIN_EMAIL"`
	AdminPasswordHash string `env:"PMC_ADMIN_PASSWORD_HASH"`

	// HTTP surface
	AllowedOrigins []string `env:"PMC_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
	MaxBodyBytes   int64    `env:"PMC_MAX_BODY_BYTES" envDefault:"10485760"` // 10 MB
	TrustProxy     bool     `env:"PMC_TRUST_PROXY" envDefault:"false"`

	// Rate limiting: fixed windows for login and contact, token bucket globally
	LoginRateWindow   time.Duration `env:"PMC_LOGIN_RATE_WINDOW" envDefault:"15m"`
	LoginRateMax      int           `env:"PMC_LOGIN_RATE_MAX" envDefault:"5"`
	ContactRateWindow time.Duration `env:"PMC_CONTACT_RATE_WINDOW" envDefault:"1m"`
	ContactRateMax    int           `env:"PMC_CONTACT_RATE_MAX" envDefault:"3"`
	GlobalRateRPS     float64       `env:"PMC_GLOBAL_RATE_RPS" envDefault:"20"`
	GlobalRateBurst   int           `env:"PMC_GLOBAL_RATE_BURST" envDefault:"40"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AdminConfigured reports whether both admin credential values are set.
func (c Config) AdminConfigured() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The secret doubles as the CSRF auth key, which needs 32 bytes.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PMC_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.LoginRateMax <= 0 || cfg.ContactRateMax <= 0 {
		return nil, fmt.Errorf("rate limit max values must be positive")
	}
	if cfg.LoginRateWindow <= 0 || cfg.ContactRateWindow <= 0 {
		return nil, fmt.Errorf("rate limit windows must be positive")
	}

	return cfg, nil
}
