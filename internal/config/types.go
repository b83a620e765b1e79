package config

import (
	"time"
)

// MaestroConfig is the top-level configuration structure for MaestroChat.
type MaestroConfig struct {
	// Environment mirrors NODE_ENV. "production" turns on Secure cookies.
	Environment string        `yaml:"environment,omitempty"`
	Server      ServerConfig  `yaml:"server"`
	Google      GoogleConfig  `yaml:"google"`
	Session     SessionConfig `yaml:"session"`
	Logging     LoggingConfig `yaml:"logging"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host,omitempty"`
	Port         int           `yaml:"port,omitempty"`
	ReadTimeout  time.Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout time.Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout  time.Duration `yaml:"idleTimeout,omitempty"`
}

// GoogleConfig holds the OAuth client settings for the Google connector.
// ClientID and ClientSecret are read from the process environment only.
type GoogleConfig struct {
	Issuer       string   `yaml:"issuer,omitempty"`
	ClientID     string   `yaml:"-"`
	ClientSecret string   `yaml:"-"`
	RedirectURI  string   `yaml:"redirectUri,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

// HasClientCredentials reports whether both client ID and secret are set.
func (g GoogleConfig) HasClientCredentials() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig selects and configures the server-side token record store.
type SessionConfig struct {
	Backend       string        `yaml:"backend,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
	RedisAddr     string        `yaml:"redisAddr,omitempty"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redisDb,omitempty"`
	RedisPrefix   string        `yaml:"redisPrefix,omitempty"`
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // "text" or "json"
}

// IsProduction reports whether cookies should carry the Secure flag. The
// match is exact, the same test NODE_ENV gets from the web client.
func (c MaestroConfig) IsProduction() bool {
	return c.Environment == "production"
}
