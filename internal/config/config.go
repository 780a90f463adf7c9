package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the full TOML configuration.
type Config struct {
	Seed    SeedConfig    `toml:"seed"`
	Popover PopoverConfig `toml:"popover"`
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
}

// SeedConfig points at an optional YAML seed document.
type SeedConfig struct {
	Path string `toml:"path"`
}

// PopoverConfig holds the info popover anchor offsets in terminal cells.
type PopoverConfig struct {
	OffsetX int `toml:"offset_x"`
	InsetY  int `toml:"inset_y"`
}

// BoardConfig holds board presentation settings.
type BoardConfig struct {
	Title      string `toml:"title"`
	ShowCounts bool   `toml:"show_counts"`
}

// LoggingConfig holds runtime logger settings.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the dev-mode log file sink.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the built-in configuration. seedPath may be empty.
func Default(seedPath string) Config {
	return Config{
		Seed: SeedConfig{
			Path: seedPath,
		},
		Popover: PopoverConfig{
			OffsetX: 2,
			InsetY:  1,
		},
		Board: BoardConfig{
			Title:      "Projects",
			ShowCounts: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".shuttle/log",
			},
		},
	}
}

// Load reads path over defaults. A missing or empty file yields the defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Popover.OffsetX < 0 {
		return fmt.Errorf("popover.offset_x must be >= 0")
	}
	if c.Popover.InsetY < 0 {
		return fmt.Errorf("popover.inset_y must be >= 0")
	}
	if strings.TrimSpace(c.Board.Title) == "" {
		return errors.New("board.title is required")
	}
	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when dev_file is enabled")
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return out, nil
}
