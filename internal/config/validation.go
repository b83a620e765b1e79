package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rzmat/MaestroChat/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks the configuration for values the server cannot start with.
// Missing Google client credentials are not reported here; they
// only become fatal when the OAuth client configuration is first needed.
func (c MaestroConfig) Validate() error {
	var errs ValidationErrors

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs.Add("server.port", "must be between 1 and 65535", c.Server.Port)
	}

	if !isAbsoluteURL(c.Google.Issuer) {
		errs.Add("google.issuer", "must be an absolute URL", c.Google.Issuer)
	}
	if !isAbsoluteURL(c.Google.RedirectURI) {
		errs.Add("google.redirectUri", "must be an absolute URL", c.Google.RedirectURI)
	}
	if len(c.Google.Scopes) == 0 {
		errs.Add("google.scopes", "must have at least one scope")
	}

	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if strings.TrimSpace(c.Session.RedisAddr) == "" {
			errs.Add("session.redisAddr", "is required for the redis backend")
		}
	default:
		errs.Add("session.backend", fmt.Sprintf("must be %q or %q", SessionBackendMemory, SessionBackendRedis), c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		errs.Add("session.ttl", "must be positive", c.Session.TTL)
	}

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs.Add("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs.Add("logging.format", `must be "text" or "json"`, c.Logging.Format)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
