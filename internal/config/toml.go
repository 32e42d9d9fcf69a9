// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
	Keys  KeysConfig  `toml:"keys"`
	Log   LogConfig   `toml:"log"`
}

// TimerConfig maps timer-related settings.
type TimerConfig struct {
	Splits        *string `toml:"splits"`
	Comparison    *string `toml:"comparison"`
	FrameRounding *bool   `toml:"frame-rounding"`
	TickMs        *int    `toml:"tick-ms"`
}

// KeysConfig maps timing actions to key names. Each entry may list several
// keys separated by commas.
type KeysConfig struct {
	Split          *string `toml:"split"`
	Pause          *string `toml:"pause"`
	Skip           *string `toml:"skip"`
	Unsplit        *string `toml:"unsplit"`
	Reset          *string `toml:"reset"`
	NextComparison *string `toml:"next-comparison"`
	PrevComparison *string `toml:"prev-comparison"`
	Quit           *string `toml:"quit"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// StringOr returns *value, or fallback when value is nil.
func StringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
