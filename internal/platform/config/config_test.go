package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NOTIFY_DRIVER", "")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if !cfg.DevMode() {
		t.Fatalf("expected dev mode without JWT_SECRET")
	}
	if cfg.Notify.Driver != "log" {
		t.Fatalf("expected log notify driver, got %q", cfg.Notify.Driver)
	}
	if cfg.Expiry.SweepInterval != time.Hour {
		t.Fatalf("expected 1h sweep interval, got %s", cfg.Expiry.SweepInterval)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "0123456789abcdef-secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "5m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("NOTIFY_DRIVER", "log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.App.Port != "9090" || cfg.DevMode() {
		t.Fatalf("unexpected app/auth config: %+v %+v", cfg.App, cfg.Auth)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute || cfg.Expiry.SweepInterval != 5*time.Minute {
		t.Fatalf("durations not parsed: %+v", cfg)
	}
	if cfg.DB.MaxOpenConns != 10 {
		t.Fatalf("expected fallback to default on bad int, got %d", cfg.DB.MaxOpenConns)
	}
}

func TestValidate_RejectsIncompleteNotifyDriver(t *testing.T) {
	cases := []Config{
		{Notify: NotifyConfig{Driver: "webhook"}, Expiry: ExpiryConfig{SweepInterval: time.Minute}},
		{Notify: NotifyConfig{Driver: "redis"}, Expiry: ExpiryConfig{SweepInterval: time.Minute}},
		{Notify: NotifyConfig{Driver: "pigeon"}, Expiry: ExpiryConfig{SweepInterval: time.Minute}},
		{Notify: NotifyConfig{Driver: "log"}, Auth: AuthConfig{JWTSecret: "short"}, Expiry: ExpiryConfig{SweepInterval: time.Minute}},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
