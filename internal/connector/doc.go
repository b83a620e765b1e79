// Package connector keeps a browser's Google access token fresh.
//
// Credentials live in two places: three cookies on the browser
// (gc_access_token, gc_refresh_token, gc_expires_at) and a token record in
// the session store. Manager.GetFreshAccessToken reads both, preferring the
// cookie value for each field, and runs a refresh-token grant when the access
// token is missing or expires within 30 seconds. A successful refresh is
// written back to both places; a failed one changes nothing.
//
// The only error GetFreshAccessToken returns is a configuration error
// (missing Google client credentials). Grant failures are reported through
// Result.Outcome so callers can keep serving with the stale record.
package connector
