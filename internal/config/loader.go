package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rzmat/MaestroChat/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/maestrochat"
	configFileName = "config.yaml"
)

// Environment variables read on top of file configuration.
const (
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvGoogleRedirectURI  = "GOOGLE_REDIRECT_URI"
	EnvNodeEnv            = "NODE_ENV"
	EnvAppEnv             = "APP_ENV"
	EnvPort               = "PORT"
	EnvHost               = "MAESTRO_HOST"
	EnvSessionBackend     = "MAESTRO_SESSION_BACKEND"
	EnvRedisAddr          = "MAESTRO_REDIS_ADDR"
	EnvRedisPassword      = "MAESTRO_REDIS_PASSWORD"
	EnvRedisDB            = "MAESTRO_REDIS_DB"
	EnvLogLevel           = "MAESTRO_LOG_LEVEL"
	EnvLogFormat          = "MAESTRO_LOG_FORMAT"
)

// Package-level hooks so tests can isolate the loader from the host.
var (
	osUserHomeDir = os.UserHomeDir
	lookupEnv     = os.LookupEnv
)

// GetDefaultConfigPath returns the per-user configuration directory.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig builds the effective configuration: defaults, then config.yaml
// from configPath (or the user config directory when configPath is empty),
// then environment variables.
func LoadConfig(configPath string) (MaestroConfig, error) {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			logging.Warn("Config", "Skipping user configuration: %v", err)
		}
		configPath = defaultPath
	}

	cfg := GetDefaultConfig()
	if configPath != "" {
		if err := loadConfigFile(filepath.Join(configPath, configFileName), &cfg); err != nil {
			return MaestroConfig{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return MaestroConfig{}, err
	}
	return cfg, nil
}

func loadConfigFile(configFilePath string, cfg *MaestroConfig) error {
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return nil
		}
		return NewConfigurationError(configFilePath, "io", fmt.Sprintf("failed to read file: %v", err))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		cerr := NewConfigurationError(configFilePath, "parse", err.Error())
		cerr.Suggestions = []string{"check the YAML indentation and field names in " + configFileName}
		return cerr
	}

	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return nil
}

func applyEnv(cfg *MaestroConfig) error {
	if v, ok := lookupEnv(EnvNodeEnv); ok && v != "" {
		cfg.Environment = v
	} else if v, ok := lookupEnv(EnvAppEnv); ok && v != "" {
		cfg.Environment = v
	}

	if v, ok := lookupEnv(EnvGoogleClientID); ok {
		cfg.Google.ClientID = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvGoogleClientSecret); ok {
		cfg.Google.ClientSecret = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvGoogleRedirectURI); ok && v != "" {
		cfg.Google.RedirectURI = v
	}

	if v, ok := lookupEnv(EnvHost); ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := lookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return NewConfigurationError("env:"+EnvPort, "parse", fmt.Sprintf("could not be parsed as integer (%q)", v))
		}
		cfg.Server.Port = port
	}

	if v, ok := lookupEnv(EnvSessionBackend); ok && v != "" {
		cfg.Session.Backend = strings.ToLower(v)
	}
	if v, ok := lookupEnv(EnvRedisAddr); ok && v != "" {
		cfg.Session.RedisAddr = v
	}
	if v, ok := lookupEnv(EnvRedisPassword); ok {
		cfg.Session.RedisPassword = v
	}
	if v, ok := lookupEnv(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return NewConfigurationError("env:"+EnvRedisDB, "parse", fmt.Sprintf("could not be parsed as integer (%q)", v))
		}
		cfg.Session.RedisDB = db
	}

	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = v
	}
	return nil
}
