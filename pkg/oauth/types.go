package oauth

import (
	"math"
	"strconv"
	"time"
)

// DefaultExpiryMargin is the default margin when checking token expiry.
// This accounts for clock skew and network latency.
const DefaultExpiryMargin = 30 * time.Second

// Credentials is the flat credential record shared by the cookie jar and
// the session store. Empty strings mean "absent"; ExpiresAt is milliseconds
// since the Unix epoch and 0 means "absent".
type Credentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// HasExpiry reports whether an expiry timestamp is known.
func (c Credentials) HasExpiry() bool {
	return c.ExpiresAt != 0
}

// Expiry returns ExpiresAt as a time.Time, or the zero time when absent.
func (c Credentials) Expiry() time.Time {
	if !c.HasExpiry() {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiresAt)
}

// IsExpiringSoon reports whether the access token expires within margin of
// now. The comparison is strict: a token whose expiry is exactly margin away
// is still considered fresh. Records without an expiry never expire.
func (c Credentials) IsExpiringSoon(now time.Time, margin time.Duration) bool {
	if !c.HasExpiry() {
		return false
	}
	return now.UnixMilli() > c.ExpiresAt-margin.Milliseconds()
}

// ShouldRefresh reports whether a refresh grant should be attempted: a
// refresh token is required, and either the access token is missing or it
// is about to expire.
func (c Credentials) ShouldRefresh(now time.Time, margin time.Duration) bool {
	if c.RefreshToken == "" {
		return false
	}
	return c.AccessToken == "" || c.IsExpiringSoon(now, margin)
}

// ExpiresAtString renders ExpiresAt the way it is stored in cookies.
func (c Credentials) ExpiresAtString() string {
	if !c.HasExpiry() {
		return ""
	}
	return strconv.FormatInt(c.ExpiresAt, 10)
}

// ParseExpiresAt parses a millisecond timestamp string. Empty, malformed,
// non-finite or out of range input yields 0 ("absent") and false.
func ParseExpiresAt(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// Redacted returns a copy safe to pass to formatters and loggers.
func (c Credentials) Redacted() RedactedCredentials {
	return RedactedCredentials{
		AccessToken:  NewRedactedToken(c.AccessToken),
		RefreshToken: NewRedactedToken(c.RefreshToken),
		ExpiresAt:    c.ExpiresAt,
	}
}

// RedactedCredentials mirrors Credentials with token values hidden.
type RedactedCredentials struct {
	AccessToken  RedactedToken `json:"access_token"`
	RefreshToken RedactedToken `json:"refresh_token"`
	ExpiresAt    int64         `json:"expires_at,omitempty"`
}
