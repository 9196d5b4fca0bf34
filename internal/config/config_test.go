package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
zone:
  id: "zone-123"
feed:
  url: "ws://127.0.0.1:8090/ws/?EIO=3&transport=websocket"
  ping_interval: 5s
  event_name: scrobble
history:
  url: "http://127.0.0.1:8090/sound_zones/{zone}/history_tracks/latest"
mock:
  port: 9999
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Zone.ID != "zone-123" {
		t.Errorf("Zone.ID = %q, want %q", cfg.Zone.ID, "zone-123")
	}
	if cfg.Feed.PingInterval != 5*time.Second {
		t.Errorf("Feed.PingInterval = %v, want 5s", cfg.Feed.PingInterval)
	}
	if cfg.Feed.EventName != "scrobble" {
		t.Errorf("Feed.EventName = %q, want %q", cfg.Feed.EventName, "scrobble")
	}
	if cfg.Mock.Port != 9999 {
		t.Errorf("Mock.Port = %d, want 9999", cfg.Mock.Port)
	}

	// Defaults should still be applied for unspecified fields.
	if cfg.History.APIVersion != DefaultAPIVersion {
		t.Errorf("History.APIVersion = %q, want default %q", cfg.History.APIVersion, DefaultAPIVersion)
	}
	if cfg.Feed.DialTimeout == 0 {
		t.Error("Feed.DialTimeout should have default, got 0")
	}
	if cfg.Mock.Host != "127.0.0.1" {
		t.Errorf("Mock.Host = %q, want default", cfg.Mock.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() on missing file should return error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Zone.ID != DefaultZoneID {
		t.Errorf("Zone.ID = %q, want default", cfg.Zone.ID)
	}
	if cfg.Feed.URL != DefaultWebSocketURL {
		t.Errorf("Feed.URL = %q, want default", cfg.Feed.URL)
	}
	if cfg.Feed.PingInterval != 20*time.Second {
		t.Errorf("Feed.PingInterval = %v, want 20s", cfg.Feed.PingInterval)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte(":::not valid yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() with invalid YAML should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty zone", func(c *Config) { c.Zone.ID = "" }, true},
		{"empty feed url", func(c *Config) { c.Feed.URL = "" }, true},
		{"zero ping interval", func(c *Config) { c.Feed.PingInterval = 0 }, true},
		{"empty history url", func(c *Config) { c.History.URL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeZoneID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"#abc", "abc"},
		{" # abc \n", "abc"},
		{"a b", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeZoneID(tt.in); got != tt.want {
			t.Errorf("NormalizeZoneID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
