// Package config loads the server settings.
// A YAML file provides the base values; VPET_* environment variables override them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pocketpet/server/internal/domain/rules"
	"github.com/pocketpet/server/internal/events"
)

// Config holds every tunable of the pet server and terminal client.
type Config struct {
	ListenAddr   string `yaml:"listen_addr" env:"VPET_LISTEN_ADDR"`
	DBPath       string `yaml:"db_path" env:"VPET_DB_PATH"`
	AssetDir     string `yaml:"asset_dir" env:"VPET_ASSET_DIR"`
	AssetBaseURL string `yaml:"asset_base_url" env:"VPET_ASSET_BASE_URL"` // where species documents are fetched from

	TickInterval  time.Duration `yaml:"tick_interval" env:"VPET_TICK_INTERVAL"`
	SettleDelay   time.Duration `yaml:"settle_delay" env:"VPET_SETTLE_DELAY"` // how long eating/play frames stay up
	FetchTimeout  time.Duration `yaml:"fetch_timeout" env:"VPET_FETCH_TIMEOUT"`
	MoodThreshold int           `yaml:"mood_threshold" env:"VPET_MOOD_THRESHOLD"`

	ValidateSpeciesDocs bool   `yaml:"validate_species_docs" env:"VPET_VALIDATE_SPECIES_DOCS"`
	EventArchiveDir     string `yaml:"event_archive_dir" env:"VPET_EVENT_ARCHIVE_DIR"`   // empty disables the archive
	EventLogCapacity    int    `yaml:"event_log_capacity" env:"VPET_EVENT_LOG_CAPACITY"` // events kept in memory for /api/events

	ClientSendBuffer int `yaml:"client_send_buffer" env:"VPET_CLIENT_SEND_BUFFER"`
	TaskQueueSize    int `yaml:"task_queue_size" env:"VPET_TASK_QUEUE_SIZE"`
}

// NewDefault returns the settings used when no file is present.
func NewDefault() *Config {
	return &Config{
		ListenAddr:          ":8080",
		DBPath:              "data/pet.db",
		AssetDir:            "public",
		AssetBaseURL:        "http://localhost:8080/",
		TickInterval:        time.Second,
		SettleDelay:         time.Second,
		FetchTimeout:        5 * time.Second,
		MoodThreshold:       rules.DefaultMoodThreshold,
		ValidateSpeciesDocs: true,
		EventArchiveDir:     "data/events",
		EventLogCapacity:    events.DefaultCapacity,
		ClientSendBuffer:    64,
		TaskQueueSize:       64,
	}
}

// Load reads path (if it exists) over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative, got %s", c.SettleDelay)
	}
	if c.MoodThreshold < 0 || c.MoodThreshold > rules.MaxStat {
		return fmt.Errorf("mood_threshold must be within 0-%d, got %d", rules.MaxStat, c.MoodThreshold)
	}
	if c.ClientSendBuffer <= 0 || c.TaskQueueSize <= 0 || c.EventLogCapacity <= 0 {
		return errors.New("client_send_buffer, task_queue_size and event_log_capacity must be positive")
	}
	return nil
}
