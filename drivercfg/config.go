// Package drivercfg holds the CLI/driver's own settings, as distinct from
// an ISA descriptor: output formatting, default flag values, and the
// inspector's display preferences. A tagged struct loaded with
// github.com/BurntSushi/toml, with a DefaultConfig constructor and a
// platform-specific default path helper.
package drivercfg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the translator's own settings (distinct from an ISA
// descriptor).
type Config struct {
	Listing struct {
		HeaderOnly    bool   `toml:"header_only"`
		BytesPerLine  int    `toml:"bytes_per_line"`
		NumberFormat  string `toml:"number_format"` // hex, dec
	} `toml:"listing"`

	Inspector struct {
		ColorOutput bool `toml:"color_output"`
		ShowHex     bool `toml:"show_hex"`
	} `toml:"inspector"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Listing.HeaderOnly = false
	cfg.Listing.BytesPerLine = 8
	cfg.Listing.NumberFormat = "hex"
	cfg.Inspector.ColorOutput = true
	cfg.Inspector.ShowHex = true
	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "masm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "masm.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "masm")

	default:
		return "masm.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "masm.toml"
	}

	return filepath.Join(configDir, "masm.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults if it doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
