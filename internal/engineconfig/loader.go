package engineconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns the user config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(configDir, "paned", "config.yaml"), nil
}

// Load reads the config at path, applying defaults for everything the
// file leaves unset. A missing file is not an error; it yields the
// defaults. An empty path uses DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			applyDerivedDefaults(cfg, path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	applyDerivedDefaults(cfg, path)
	return cfg, nil
}

// applyDerivedDefaults fills path-shaped defaults that depend on where
// the config itself lives.
func applyDerivedDefaults(cfg *Config, configPath string) {
	base := filepath.Dir(configPath)
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = filepath.Join(base, "layouts")
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(base, "paned.log")
	}
}

func validate(cfg *Config) error {
	if cfg.Screen.Rows < 0 || cfg.Screen.Cols < 0 {
		return fmt.Errorf("screen size must not be negative")
	}
	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}
	return nil
}
