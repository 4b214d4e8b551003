package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "PAYMENT_DELAY", "ALLOWED_ORIGINS", "API_TOKEN"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "5200")
	t.Setenv("PAYMENT_DELAY", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5200 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Payments.Delay != 2*time.Second {
		t.Errorf("delay = %s", cfg.Payments.Delay)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected in-memory storage, got %q", cfg.Database.URL)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 should be disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example,")
	t.Setenv("PAYMENT_DELAY", "250ms")
	t.Setenv("CHECKOUT_RETENTION", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("origins = %v", got)
	}
	if cfg.Payments.Delay != 250*time.Millisecond {
		t.Errorf("delay = %s", cfg.Payments.Delay)
	}
	if cfg.Payments.Retention != 30*time.Minute {
		t.Errorf("bad duration should fall back to default, got %s", cfg.Payments.Retention)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
