// Package google talks to Google's OAuth 2.0 endpoints.
//
// The Provider discovers the endpoints from the OpenID configuration published
// by the issuer the first time they are needed and caches the resulting
// client configuration for the life of the process. Concurrent first calls
// share a single discovery request. A failed discovery is not cached, so the
// next call tries again.
//
// Client credentials are required before any network traffic happens: if
// GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is unset every call fails with
// ErrMissingClientCredentials.
package google
