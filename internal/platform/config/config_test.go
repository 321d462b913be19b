package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketpet/server/internal/domain/rules"
	"github.com/pocketpet/server/internal/events"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TickInterval != time.Second {
		t.Errorf("Expected default tick of 1s, got %s", cfg.TickInterval)
	}
	if cfg.MoodThreshold != rules.DefaultMoodThreshold {
		t.Errorf("Expected default mood threshold, got %d", cfg.MoodThreshold)
	}
	if cfg.EventLogCapacity != events.DefaultCapacity {
		t.Errorf("Expected default event log capacity, got %d", cfg.EventLogCapacity)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.yaml")
	body := "listen_addr: \":9090\"\ntick_interval: 250ms\nmood_threshold: 50\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("VPET_LISTEN_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("Expected tick 250ms from file, got %s", cfg.TickInterval)
	}
	if cfg.MoodThreshold != 50 {
		t.Errorf("Expected mood threshold 50 from file, got %d", cfg.MoodThreshold)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("Expected env override :7070, got %s", cfg.ListenAddr)
	}
	if cfg.SettleDelay != time.Second {
		t.Errorf("Expected untouched default settle delay, got %s", cfg.SettleDelay)
	}
}

func TestLoadRejectsZeroEventLogCapacity(t *testing.T) {
	t.Setenv("VPET_EVENT_LOG_CAPACITY", "0")

	if _, err := Load(""); err == nil {
		t.Errorf("Expected validation error for an empty event log")
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("VPET_MOOD_THRESHOLD", "150")

	if _, err := Load(""); err == nil {
		t.Errorf("Expected validation error for threshold 150")
	}
}
