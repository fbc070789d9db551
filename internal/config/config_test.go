package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.HTTP.Addr)
	}
	if cfg.Venues.SearchRadiusM != 5000 || cfg.Venues.QueryTimeout != 5*time.Second {
		t.Fatalf("unexpected venue defaults: %+v", cfg.Venues)
	}
	if len(cfg.Catalog.Sports) == 0 || len(cfg.Catalog.Cities) == 0 {
		t.Fatalf("catalogs must have defaults")
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected defaults, got addr %q", cfg.HTTP.Addr)
	}
}

func TestYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("http:\n  addr: \":9090\"\nlog:\n  level: warn\nvenues:\n  search_radius_m: 2500\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Log.Level != "warn" || cfg.Venues.SearchRadiusM != 2500 {
		t.Fatalf("yaml overrides not applied: %+v", cfg)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("untouched defaults must survive yaml load")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("VENUES_CACHE_TTL", "30m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env addr override not applied: %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTAccessTTL != time.Hour {
		t.Fatalf("env ttl override not applied: %v", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Venues.CacheTTL != 30*time.Minute {
		t.Fatalf("env cache ttl override not applied: %v", cfg.Venues.CacheTTL)
	}
}

func TestBadEnvDurationFails(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unparseable duration")
	}
}
