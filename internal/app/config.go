package app

import (
	"io"

	"github.com/rzmat/MaestroChat/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// Custom configuration directory (optional). Empty means the user
	// config directory.
	ConfigPath string

	// LogOutput receives log lines; nil means stdout.
	LogOutput io.Writer

	// MaestroConfig is filled in by NewApplication. Pre-populating it skips
	// loading from disk.
	MaestroConfig *config.MaestroConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
