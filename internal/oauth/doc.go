// Package oauth implements the browser side of connecting a Google account.
//
// HandleAuthorize makes sure the browser has a session, records a pending
// authorization (session id plus PKCE verifier) under a random state value
// and redirects to Google's consent screen. HandleCallback consumes that state
// exactly once, checks it belongs to the calling browser, exchanges the code
// and hands the tokens to connector.Manager, which writes the credential
// cookies and the session record.
//
// Pending authorizations expire after ten minutes. Callback pages carry
// restrictive security headers and escape every interpolated value.
package oauth
