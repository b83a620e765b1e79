package logging

import (
	"context"
	"log/slog"
)

// AuditEvent describes a security-relevant action such as a token refresh
// or a completed Google connect flow.
type AuditEvent struct {
	Action    string // e.g. "token_refresh", "google_connect"
	Outcome   string // "success", "failure", "skipped"
	SessionID string // already truncated by the caller
	Target    string // e.g. the provider issuer
	Error     string
}

// Audit logs an audit event at INFO level with an [AUDIT] prefix.
func Audit(event AuditEvent) {
	logger := Logger()
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		return
	}

	attrs := []slog.Attr{
		slog.String("subsystem", "Audit"),
		slog.String("action", event.Action),
		slog.String("outcome", event.Outcome),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session", event.SessionID))
	}
	if event.Target != "" {
		attrs = append(attrs, slog.String("target", event.Target))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	logger.LogAttrs(context.Background(), slog.LevelInfo, "[AUDIT] "+event.Action, attrs...)
}
