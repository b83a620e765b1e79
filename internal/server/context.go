package server

import "context"

type contextKey string

//nolint:gosec // G101 false positive: context key name, not a credential
const accessTokenKey contextKey = "google_access_token"

// ContextWithAccessToken returns a context carrying the caller's Google
// access token for downstream handlers.
func ContextWithAccessToken(ctx context.Context, accessToken string) context.Context {
	return context.WithValue(ctx, accessTokenKey, accessToken)
}

// AccessTokenFromContext returns the Google access token stored by the
// freshness middleware, if any.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
