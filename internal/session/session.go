package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rzmat/MaestroChat/pkg/oauth"
)

// CookieName is the cookie carrying the opaque session identifier.
const CookieName = "gc_session_id"

// CookieMaxAge matches the lifetime of the token cookies.
const CookieMaxAge = 7 * 24 * time.Hour

// TokenSet is the record kept per session. The JSON field names are part of
// the storage format shared with existing deployments.
type TokenSet struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Credentials returns the credential fields of the record. A nil record
// yields empty credentials.
func (t *TokenSet) Credentials() oauth.Credentials {
	if t == nil {
		return oauth.Credentials{}
	}
	return oauth.Credentials{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
	}
}

// Merge returns a copy of existing (which may be nil) with the non-empty
// credential fields of c written over it. Other fields are preserved.
func Merge(existing *TokenSet, c oauth.Credentials, now time.Time) *TokenSet {
	merged := &TokenSet{}
	if existing != nil {
		*merged = *existing
	}
	if c.AccessToken != "" {
		merged.AccessToken = c.AccessToken
	}
	if c.RefreshToken != "" {
		merged.RefreshToken = c.RefreshToken
	}
	if c.HasExpiry() {
		merged.ExpiresAt = c.ExpiresAt
	}
	merged.UpdatedAt = now
	return merged
}

// ID returns the session identifier carried by the request, or "" when the
// browser has none.
func ID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Ensure returns the request's session identifier, issuing a new one in a
// cookie when absent.
func Ensure(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id := ID(r); id != "" {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   CookieName,
		Path:   "/",
		MaxAge: -1,
	})
}
