// Package config loads nowplaying settings from YAML over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultZoneID is "Soundtrack HQ - Lounge".
	DefaultZoneID = "U291bmRab25lLCwxanBuY3lvajR6ay9Mb2NhdGlvbiwsMWp2bnk3aTdoMWMvQWNjb3VudCwsMW5kbWR6bmF5Z3cv"

	DefaultWebSocketURL = "wss://ws.soundtrackyourbrand.com/ws/?EIO=3&transport=websocket"
	DefaultHistoryURL   = "https://radio.api.soundtrackyourbrand.com/sound_zones/{zone}/history_tracks/latest"
	DefaultAPIVersion   = "10"
	DefaultPingInterval = 20 * time.Second
)

type Config struct {
	Zone    ZoneConfig    `yaml:"zone"`
	Feed    FeedConfig    `yaml:"feed"`
	History HistoryConfig `yaml:"history"`
	Mock    MockConfig    `yaml:"mock"`
}

type ZoneConfig struct {
	ID string `yaml:"id"`
}

type FeedConfig struct {
	URL          string        `yaml:"url"`
	PingInterval time.Duration `yaml:"ping_interval"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	// EventName restricts delivery to one socket.io event. Empty accepts any.
	EventName string `yaml:"event_name"`
}

type HistoryConfig struct {
	// URL may contain {zone}, replaced by the zone id.
	URL        string        `yaml:"url"`
	APIVersion string        `yaml:"api_version"`
	Timeout    time.Duration `yaml:"timeout"`
}

type MockConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	EmitInterval time.Duration `yaml:"emit_interval"`
	HistorySize  int           `yaml:"history_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Zone: ZoneConfig{ID: DefaultZoneID},
		Feed: FeedConfig{
			URL:          DefaultWebSocketURL,
			PingInterval: DefaultPingInterval,
			DialTimeout:  10 * time.Second,
		},
		History: HistoryConfig{
			URL:        DefaultHistoryURL,
			APIVersion: DefaultAPIVersion,
			Timeout:    10 * time.Second,
		},
		Mock: MockConfig{
			Host:         "127.0.0.1",
			Port:         8090,
			EmitInterval: 15 * time.Second,
			HistorySize:  10,
		},
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports the first setting that would make the client unusable.
func (c *Config) Validate() error {
	switch {
	case c.Zone.ID == "":
		return errors.New("zone id is required")
	case c.Feed.URL == "":
		return errors.New("feed url is required")
	case c.Feed.PingInterval <= 0:
		return fmt.Errorf("feed ping_interval must be positive, got %v", c.Feed.PingInterval)
	case c.History.URL == "":
		return errors.New("history url is required")
	}
	return nil
}

// NormalizeZoneID strips the decoration people paste along with a zone id:
// leading '#' or spaces and trailing whitespace.
func NormalizeZoneID(id string) string {
	id = strings.TrimLeft(id, " #")
	return strings.TrimRightFunc(id, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
