// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the impoot binaries.
type Config struct {
	Port           string        `env:"IMPOOT_PORT"             envDefault:"8080"`
	DBPath         string        `env:"IMPOOT_DB_PATH"          envDefault:"./impoot.db"`
	MediaDir       string        `env:"IMPOOT_MEDIA_DIR"        envDefault:"./media"`
	PublicURL      string        `env:"IMPOOT_PUBLIC_URL"       envDefault:"http://localhost:8080"`
	JWTSecret      string        `env:"IMPOOT_JWT_SECRET"`
	AccessTTL      time.Duration `env:"IMPOOT_ACCESS_TTL"       envDefault:"1h"`
	RefreshTTL     time.Duration `env:"IMPOOT_REFRESH_TTL"      envDefault:"720h"`
	AdminEmails    []string      `env:"IMPOOT_ADMIN_EMAILS"     envSeparator:","`
	AllowedOrigins []string      `env:"IMPOOT_ALLOWED_ORIGINS"  envSeparator:"," envDefault:"http://localhost:*"`
	MaxUploadBytes int64         `env:"IMPOOT_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	LLMBaseURL string `env:"IMPOOT_LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	LLMAPIKey  string `env:"IMPOOT_LLM_API_KEY"`
	LLMModel   string `env:"IMPOOT_LLM_MODEL"    envDefault:"gemini-1.5-flash"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	return cfg, nil
}

// Validate checks settings the API server cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("IMPOOT_JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("IMPOOT_JWT_SECRET must be at least 16 bytes")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("IMPOOT_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsAdminEmail reports whether email is listed in IMPOOT_ADMIN_EMAILS.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email && email != "" {
			return true
		}
	}
	return false
}
