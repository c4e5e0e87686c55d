package compare

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	// WHAT: Zero config resolves to the standard capture geometry.
	cfg := DefaultConfig()
	if cfg.Capture.Width != 1280 {
		t.Errorf("width = %d", cfg.Capture.Width)
	}
	if cfg.Capture.MaxHeight != 4000 {
		t.Errorf("max height = %d", cfg.Capture.MaxHeight)
	}
	if cfg.Capture.NavTimeout != 30*time.Second {
		t.Errorf("nav timeout = %s", cfg.Capture.NavTimeout)
	}
	if cfg.Capture.NavRetries != 1 {
		t.Errorf("nav retries = %d", cfg.Capture.NavRetries)
	}
	if cfg.Compose.FrameDuration != 1500*time.Millisecond {
		t.Errorf("frame duration = %s", cfg.Compose.FrameDuration)
	}
	if cfg.Batch.Workers != 1 {
		t.Errorf("workers = %d", cfg.Batch.Workers)
	}
}

func TestLoadConfigFile(t *testing.T) {
	// WHAT: YAML values override defaults; unset keys keep them.
	path := filepath.Join(t.TempDir(), "revamp.yaml")
	yaml := `
capture:
  width: 1440
  nav_timeout: 45s
batch:
  workers: 4
browser:
  headful: true
runlog:
  path: events.db
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capture.Width != 1440 {
		t.Errorf("width = %d", cfg.Capture.Width)
	}
	if cfg.Capture.NavTimeout != 45*time.Second {
		t.Errorf("nav timeout = %s", cfg.Capture.NavTimeout)
	}
	if cfg.Capture.MaxHeight != 4000 {
		t.Errorf("default max height lost: %d", cfg.Capture.MaxHeight)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("workers = %d", cfg.Batch.Workers)
	}
	if !cfg.Browser.Headful {
		t.Error("headful not parsed")
	}
	if cfg.RunLog.Path != "events.db" {
		t.Errorf("runlog path = %q", cfg.RunLog.Path)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config should error")
	}
}
