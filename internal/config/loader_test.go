package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORTAL_TOKEN_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:portal.db" {
		t.Fatalf("dsn = %q", cfg.SQLiteDSN)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("ttl = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.UpcomingLimit != 5 {
		t.Fatalf("upcoming limit = %d, want 5", cfg.UpcomingLimit)
	}
	if cfg.BootstrapAdmin() {
		t.Fatal("bootstrap must be off without admin credentials")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("PORTAL_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing token secret")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORTAL_HTTP_PORT", "9090")
	t.Setenv("PORTAL_TOKEN_TTL", "1h30m")
	t.Setenv("PORTAL_UPCOMING_LIMIT", "10")
	t.Setenv("PORTAL_ADMIN_EMAIL", "admin@example.org")
	t.Setenv("PORTAL_ADMIN_PASSWORD", "segredo forte")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != 9090 || cfg.TokenTTL != 90*time.Minute || cfg.UpcomingLimit != 10 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.BootstrapAdmin() {
		t.Fatal("bootstrap must be on with admin credentials")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero port", key: "PORTAL_HTTP_PORT", value: "0"},
		{name: "negative ttl", key: "PORTAL_TOKEN_TTL", value: "-1h"},
		{name: "zero limit", key: "PORTAL_UPCOMING_LIMIT", value: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_AdminEmailRequiresPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORTAL_ADMIN_EMAIL", "admin@example.org")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when admin email is set without a password")
	}
}
