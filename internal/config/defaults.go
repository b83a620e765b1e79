package config

import "time"

const (
	// DefaultGoogleIssuer is the OIDC discovery base for Google accounts.
	DefaultGoogleIssuer = "https://accounts.google.com"

	// DefaultRedirectURI is the local development callback.
	DefaultRedirectURI = "http://localhost:3000/api/google/callback"

	// DefaultSessionTTL matches the cookie lifetime.
	DefaultSessionTTL = 7 * 24 * time.Hour

	DefaultRedisPrefix = "maestro:session:"
)

// DefaultGoogleScopes are requested on every authorization.
var DefaultGoogleScopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/calendar.events.readonly",
	"https://www.googleapis.com/auth/gmail.readonly",
}

// GetDefaultConfig returns the built-in configuration before file and
// environment overrides are applied.
func GetDefaultConfig() MaestroConfig {
	scopes := make([]string, len(DefaultGoogleScopes))
	copy(scopes, DefaultGoogleScopes)

	return MaestroConfig{
		Environment: "development",
		Server: ServerConfig{
			Host:         "localhost",
			Port:         3000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Google: GoogleConfig{
			Issuer:      DefaultGoogleIssuer,
			RedirectURI: DefaultRedirectURI,
			Scopes:      scopes,
		},
		Session: SessionConfig{
			Backend:     SessionBackendMemory,
			TTL:         DefaultSessionTTL,
			RedisPrefix: DefaultRedisPrefix,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
