// Package engineconfig loads the daemon's tunables from a YAML file: the
// layout directory, frame drawing, an optional fixed screen size, and the
// logging sink. The engine itself takes plain values; this package only
// exists so the surrounding daemon, CLI, and MCP layers agree on where
// those values come from.
package engineconfig

import "path/filepath"

// Config is the effective configuration after defaults are applied.
type Config struct {
	// Screen pins the tab size instead of detecting it from the host
	// terminal. Zero values mean autodetect.
	Screen ScreenConfig `yaml:"screen"`
	// DrawFrames reserves frame overhead around each pane, raising the
	// minimum pane size accordingly.
	DrawFrames bool `yaml:"draw_frames"`
	// LayoutDir is where named layout files (*.yaml) are looked up.
	LayoutDir string `yaml:"layout_dir"`
	// DefaultLayout is the layout applied when the daemon starts.
	DefaultLayout string `yaml:"default_layout"`
	Logging       LoggingConfig `yaml:"logging"`
}

// ScreenConfig optionally pins the tab extent.
type ScreenConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// LoggingConfig configures the rotating structured log sink.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		DefaultLayout: "even-split",
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// LayoutPath resolves a named layout to its file path.
func (c *Config) LayoutPath(name string) string {
	return filepath.Join(c.LayoutDir, name+".yaml")
}
