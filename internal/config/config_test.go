package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SECRET", "")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.Secret != "dev_secret" {
		t.Fatalf("expected default secret, got %s", cfg.Secret)
	}
	if cfg.DatabaseDSN != "" {
		t.Fatalf("expected empty DSN, got %s", cfg.DatabaseDSN)
	}
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected fallback to 8080, got %s", cfg.HTTPPort)
	}
}
