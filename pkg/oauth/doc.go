// Package oauth provides the credential record shared by the MaestroChat
// cookie jar, session store and Google connector.
//
// # Core Components
//
//   - Credentials: access token, refresh token and expiry (milliseconds)
//     with the expiry-skew and refresh decisions
//   - RedactedToken: a string wrapper that never prints its value
//
// # Usage
//
//	creds := oauth.Credentials{AccessToken: at, RefreshToken: rt, ExpiresAt: ms}
//	if creds.ShouldRefresh(time.Now(), oauth.DefaultExpiryMargin) {
//	    // run a refresh grant
//	}
//	logging.Debug("Connector", "loaded %+v", creds.Redacted())
package oauth
