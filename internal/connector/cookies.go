package connector

import (
	"net/http"
	"time"

	"github.com/rzmat/MaestroChat/pkg/oauth"
)

// Cookie names shared with the web client.
const (
	AccessTokenCookie  = "gc_access_token"
	RefreshTokenCookie = "gc_refresh_token"
	ExpiresAtCookie    = "gc_expires_at"
)

// DefaultCookieMaxAge is the lifetime of every credential cookie.
const DefaultCookieMaxAge = 7 * 24 * time.Hour

// CookieOptions controls the attributes of credential cookies.
type CookieOptions struct {
	Secure   bool
	Path     string
	MaxAge   time.Duration
	SameSite http.SameSite
}

// DefaultCookieOptions returns HttpOnly, Lax, path "/" cookies that last seven
// days. Secure should be true in production.
func DefaultCookieOptions(secure bool) CookieOptions {
	return CookieOptions{
		Secure:   secure,
		Path:     "/",
		MaxAge:   DefaultCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		MaxAge:   int(o.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}

// ReadCookies extracts credentials from the request cookies. Empty values
// and an unparseable expiry read as absent.
func ReadCookies(r *http.Request) oauth.Credentials {
	var creds oauth.Credentials
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		creds.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		creds.RefreshToken = c.Value
	}
	if c, err := r.Cookie(ExpiresAtCookie); err == nil {
		creds.ExpiresAt, _ = oauth.ParseExpiresAt(c.Value)
	}
	return creds
}

// WriteCookies sets a cookie for every non-empty field of creds.
func WriteCookies(w http.ResponseWriter, creds oauth.Credentials, opts CookieOptions) {
	if creds.AccessToken != "" {
		http.SetCookie(w, opts.cookie(AccessTokenCookie, creds.AccessToken))
	}
	if creds.RefreshToken != "" {
		http.SetCookie(w, opts.cookie(RefreshTokenCookie, creds.RefreshToken))
	}
	if creds.HasExpiry() {
		http.SetCookie(w, opts.cookie(ExpiresAtCookie, creds.ExpiresAtString()))
	}
}

// ClearCookies expires all credential cookies.
func ClearCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, ExpiresAtCookie} {
		c := opts.cookie(name, "")
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
