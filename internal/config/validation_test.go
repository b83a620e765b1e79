package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*MaestroConfig)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *MaestroConfig) {},
		},
		{
			name:   "missing client credentials are not a load-time error",
			mutate: func(c *MaestroConfig) { c.Google = GoogleConfig{Issuer: DefaultGoogleIssuer, RedirectURI: DefaultRedirectURI, Scopes: DefaultGoogleScopes} },
		},
		{
			name:      "port out of range",
			mutate:    func(c *MaestroConfig) { c.Server.Port = 70000 },
			wantField: "server.port",
		},
		{
			name:      "relative issuer",
			mutate:    func(c *MaestroConfig) { c.Google.Issuer = "accounts.google.com" },
			wantField: "google.issuer",
		},
		{
			name:      "relative redirect URI",
			mutate:    func(c *MaestroConfig) { c.Google.RedirectURI = "/api/google/callback" },
			wantField: "google.redirectUri",
		},
		{
			name:      "no scopes",
			mutate:    func(c *MaestroConfig) { c.Google.Scopes = nil },
			wantField: "google.scopes",
		},
		{
			name:      "unknown session backend",
			mutate:    func(c *MaestroConfig) { c.Session.Backend = "memcached" },
			wantField: "session.backend",
		},
		{
			name:      "redis without address",
			mutate:    func(c *MaestroConfig) { c.Session.Backend = SessionBackendRedis },
			wantField: "session.redisAddr",
		},
		{
			name:      "non-positive TTL",
			mutate:    func(c *MaestroConfig) { c.Session.TTL = 0 },
			wantField: "session.ttl",
		},
		{
			name:      "bad log level",
			mutate:    func(c *MaestroConfig) { c.Logging.Level = "loud" },
			wantField: "logging.level",
		},
		{
			name:      "bad log format",
			mutate:    func(c *MaestroConfig) { c.Logging.Format = "xml" },
			wantField: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			errs, ok := err.(ValidationErrors)
			if assert.True(t, ok, "expected ValidationErrors, got %T", err) {
				assert.Len(t, errs, 1)
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("server.port", "must be between 1 and 65535", 0)
	assert.Equal(t, "field 'server.port': must be between 1 and 65535", errs.Error())

	errs.Add("", "general problem")
	assert.Equal(t, "validation failed: field 'server.port': must be between 1 and 65535; general problem", errs.Error())
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		environment string
		want        bool
	}{
		{"production", true},
		{"development", false},
		{"", false},
		{"Production", false},
		{"PRODUCTION", false},
		{" production ", false},
	}

	for _, tt := range tests {
		cfg := GetDefaultConfig()
		cfg.Environment = tt.environment
		assert.Equal(t, tt.want, cfg.IsProduction(), "IsProduction() with environment %q", tt.environment)
	}
}
