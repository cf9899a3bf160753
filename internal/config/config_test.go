package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.AccessTTL != time.Hour {
		t.Fatalf("expected 1h access ttl, got %v", cfg.AccessTTL)
	}
	if cfg.LLMModel != "gemini-1.5-flash" {
		t.Fatalf("unexpected model %q", cfg.LLMModel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IMPOOT_PORT", "9090")
	t.Setenv("IMPOOT_ADMIN_EMAILS", "Boss@Example.com, ops@example.com")
	t.Setenv("IMPOOT_PUBLIC_URL", "https://impoot.kr/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.PublicURL != "https://impoot.kr" {
		t.Fatalf("expected trimmed public url, got %q", cfg.PublicURL)
	}
	if !cfg.IsAdminEmail("boss@example.com") || !cfg.IsAdminEmail("ops@example.com") {
		t.Fatalf("expected admin emails to match, got %v", cfg.AdminEmails)
	}
	if cfg.IsAdminEmail("user@example.com") {
		t.Fatal("unexpected admin match")
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("IMPOOT_ACCESS_TTL", "soon")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing secret error")
	}
	cfg.JWTSecret = "0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
