package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/daybook/internal/constants"
)

// Load reads configuration for the given directory.
// Priority: ENV > <dir>/config.yaml > defaults (via env-default tags).
// A missing config.yaml is not an error.
func Load(dir string) (*Config, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	path := filepath.Join(dir, constants.ConfigFileName)

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}
	cfg.Dir = dir
	if cfg.Log.Dir, err = ExpandHome(cfg.Log.Dir); err != nil {
		return nil, fmt.Errorf("config: log.dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// DatabasePath is where the preference database lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Dir, constants.DatabaseFileName)
}

// LogDir is where daybook.log is written
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	return filepath.Join(c.Dir, "logs")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
