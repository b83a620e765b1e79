// Package server exposes the MaestroChat HTTP API.
//
// Routes:
//
//	GET  /health               liveness probe
//	GET  /api/google/auth      start the Google connect flow
//	GET  /api/google/callback  OAuth redirect target
//	GET  /api/google/status    run the freshness check and report the result
//	POST /api/google/logout    forget the Google credentials
//	GET  /api/tools            tools offered to the assistant
//	GET  /metrics              Prometheus metrics
//
// Token values are never written to response bodies. Handlers that need the
// caller's Google access token are wrapped by withFreshToken and read it back
// with AccessTokenFromContext.
//
// Every request is traced through otelhttp; without a configured tracer
// provider the spans are no-ops.
package server
