package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultLayout != "even-split" {
		t.Fatalf("default layout = %q", cfg.DefaultLayout)
	}
	if cfg.LayoutDir == "" || cfg.Logging.File == "" {
		t.Fatalf("derived path defaults not applied: %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
screen:
  rows: 50
  cols: 200
draw_frames: true
default_layout: main-vertical
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Screen.Rows != 50 || cfg.Screen.Cols != 200 {
		t.Fatalf("screen = %+v", cfg.Screen)
	}
	if !cfg.DrawFrames {
		t.Fatalf("draw_frames not set")
	}
	if cfg.DefaultLayout != "main-vertical" {
		t.Fatalf("default layout = %q", cfg.DefaultLayout)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	// Unset logging knobs keep their defaults.
	if cfg.Logging.MaxSizeMB != 10 {
		t.Fatalf("max size = %d, want default 10", cfg.Logging.MaxSizeMB)
	}
}

func TestLoad_BadLevelRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected rejection of unknown log level")
	}
}
