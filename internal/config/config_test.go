package config

import (
	"testing"
	"time"
)

func TestLoad_StaticFeedDefaults(t *testing.T) {
	t.Setenv("FEED_KIND", "static")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Feed.Path != "ambulances" {
		t.Errorf("expected default feed path 'ambulances', got '%s'", cfg.Feed.Path)
	}
	if cfg.Hospitals.Source != HospitalSourceStatic {
		t.Errorf("expected static hospital source, got '%s'", cfg.Hospitals.Source)
	}
	if cfg.Feed.ReconnectInterval != 5*time.Second {
		t.Errorf("expected 5s reconnect interval, got %v", cfg.Feed.ReconnectInterval)
	}
}

func TestLoad_FirebaseRequiresURL(t *testing.T) {
	t.Setenv("FEED_KIND", "firebase")
	t.Setenv("FIREBASE_DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when firebase url is missing")
	}

	t.Setenv("FIREBASE_DATABASE_URL", "https://demo-default-rtdb.firebaseio.com")
	if _, err := Load(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad feed kind", "FEED_KIND", "mqtt"},
		{"bad hospital source", "HOSPITAL_SOURCE", "postgres"},
		{"bad provider", "GEOLOCATION_PROVIDER", "gps"},
		{"short secret", "SESSION_SECRET", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEED_KIND", "static")
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_StaticLocatorCoordinates(t *testing.T) {
	t.Setenv("FEED_KIND", "static")
	t.Setenv("GEOLOCATION_PROVIDER", "static")
	t.Setenv("VIEWER_LAT", "95")
	t.Setenv("VIEWER_LNG", "76.9")

	if _, err := Load(); err == nil {
		t.Error("expected error for latitude 95")
	}

	t.Setenv("VIEWER_LAT", "11.02")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Geolocation.Lat != 11.02 {
		t.Errorf("expected lat 11.02, got %v", cfg.Geolocation.Lat)
	}
}

func TestLoad_FeedIdleTimeout(t *testing.T) {
	t.Setenv("FEED_KIND", "static")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.IdleTimeout != 60*time.Second {
		t.Errorf("expected 60s idle timeout, got %v", cfg.Feed.IdleTimeout)
	}

	t.Setenv("FEED_IDLE_TIMEOUT", "0s")
	if cfg, err = Load(); err != nil || cfg.Feed.IdleTimeout != 0 {
		t.Errorf("expected idle check disabled, got %v (err %v)", cfg, err)
	}

	t.Setenv("FEED_IDLE_TIMEOUT", "10ms")
	if _, err := Load(); err == nil {
		t.Error("expected error for sub-second idle timeout")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("FEED_KIND", "static")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected default origins: %v", cfg.Server.CORSOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", " https://ops.example.org , ,http://localhost:5173")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"https://ops.example.org", "http://localhost:5173"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("expected %v, got %v", want, cfg.Server.CORSOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	if _, err := Load(); err == nil {
		t.Error("expected error when no origin is configured")
	}
}

func TestLoad_DefaultSessionSecretFlagged(t *testing.T) {
	t.Setenv("FEED_KIND", "static")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Session.IsDefaultSecret() {
		t.Error("expected default session secret to be flagged")
	}

	t.Setenv("SESSION_SECRET", "a-production-secret-value")
	if cfg, err = Load(); err != nil || cfg.Session.IsDefaultSecret() {
		t.Errorf("expected custom secret not to be flagged (err %v)", err)
	}
}
