package config

import (
	"strings"
	"testing"
	"time"
)

// testSecret is any value long enough to pass the startup length check.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("expected default token TTL 30m, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.HashMaxConcurrent != 4 {
		t.Errorf("expected default hash concurrency 4, got %d", cfg.Auth.HashMaxConcurrent)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when AUTH_SIGNING_SECRET is missing")
	}
	if !strings.Contains(err.Error(), "AUTH_SIGNING_SECRET") {
		t.Errorf("error should name the missing variable, got: %v", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for a short signing secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("expected token TTL 15m, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
}

func TestDSN_BuiltFromFields(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		User:     "banter",
		Password: "p@ss/word",
		Name:     "banter",
	}

	dsn := d.DSN()
	if !strings.Contains(dsn, "tcp(db:3306)") {
		t.Errorf("expected default port appended, got %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected parseTime enabled, got %s", dsn)
	}
}

func TestDSN_Override(t *testing.T) {
	d := DatabaseConfig{dsnOverride: "banter:banter@tcp(somewhere:3306)/banter?parseTime=true"}
	if d.DSN() != d.dsnOverride {
		t.Errorf("expected DATABASE_URL to win, got %s", d.DSN())
	}
}
