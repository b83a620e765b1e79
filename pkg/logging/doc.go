// Package logging provides subsystem-tagged structured logging for MaestroChat,
// built on Go's standard slog package.
//
// # Usage
//
//	import "github.com/rzmat/MaestroChat/pkg/logging"
//
//	// Initialize with Info level logging to stdout
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Session", "Session store unavailable, using memory")
//	logging.Error("Connector", err, "Failed to discover Google client configuration")
//
// Deployments that ship logs to a collector use InitForJSON instead.
//
// # Subsystems
//
//   - **Bootstrap**: application initialization and startup
//   - **Config**: configuration loading and validation
//   - **Google**: OIDC discovery and token grants
//   - **Connector**: token freshness decisions
//   - **Session**: session store operations
//   - **HTTP**: connect flow and status endpoints
//
// # Sensitive Values
//
// Access and refresh tokens are never logged. Session IDs are passed through
// TruncateSessionID so only the first 8 characters reach log output.
//
// # Audit Logging
//
//	logging.Audit(logging.AuditEvent{
//	    Action:    "token_refresh",
//	    Outcome:   "success",
//	    SessionID: logging.TruncateSessionID(sessionID),
//	    Target:    "https://accounts.google.com",
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix for easy
// filtering by log aggregation systems.
package logging
