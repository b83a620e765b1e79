package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"

	"github.com/rzmat/MaestroChat/internal/connector"
	"github.com/rzmat/MaestroChat/internal/google"
	"github.com/rzmat/MaestroChat/internal/session"
	"github.com/rzmat/MaestroChat/pkg/logging"
	pkgstrings "github.com/rzmat/MaestroChat/pkg/strings"
)

var callbackValidator = validator.New(validator.WithRequiredStructEnabled())

// AuthProvider builds consent URLs and exchanges authorization codes.
type AuthProvider interface {
	AuthCodeURL(ctx context.Context, state, verifier string) (string, error)
	Exchange(ctx context.Context, code, verifier string) (*google.TokenResponse, error)
}

// ConnectRecorder receives one observation per callback.
type ConnectRecorder interface {
	RecordConnect(outcome string)
}

type nopConnectRecorder struct{}

func (nopConnectRecorder) RecordConnect(string) {}

// Handler serves the Google connect flow: the authorize redirect and the
// OAuth callback.
type Handler struct {
	provider AuthProvider
	manager  *connector.Manager
	states   *StateStore
	metrics  ConnectRecorder
}

// NewHandler creates a connect-flow handler. A nil recorder disables metrics.
func NewHandler(provider AuthProvider, manager *connector.Manager, states *StateStore, metrics ConnectRecorder) *Handler {
	if metrics == nil {
		metrics = nopConnectRecorder{}
	}
	return &Handler{
		provider: provider,
		manager:  manager,
		states:   states,
		metrics:  metrics,
	}
}

// maxLoggedParamLen caps caller-supplied query values in log lines.
const maxLoggedParamLen = 64

// providerErrorReason maps the callback's error parameter onto a fixed set of
// outcomes. The raw value comes from the query string and is never used as a
// metric label.
func providerErrorReason(code string) string {
	if code == "access_denied" {
		return "access_denied"
	}
	return "provider_error"
}

// callbackParams are the query parameters Google sends to the redirect URI.
type callbackParams struct {
	Code  string `validate:"required,max=4096"`
	State string `validate:"required,uuid4"`
}

// HandleAuthorize redirects the browser to Google's consent screen.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	sessionID := session.Ensure(w, r, h.manager.CookieOptions().Secure)
	verifier := oauth2.GenerateVerifier()
	state := h.states.Generate(sessionID, verifier)

	authURL, err := h.provider.AuthCodeURL(r.Context(), state, verifier)
	if err != nil {
		h.states.Consume(state)
		if errors.Is(err, google.ErrMissingClientCredentials) {
			logging.Error("OAuth", err, "Google connect requested but client credentials are not configured")
			renderErrorPage(w, http.StatusInternalServerError, "Google integration is not configured on this server.")
			return
		}
		logging.Error("OAuth", err, "Failed to build Google authorization URL")
		renderErrorPage(w, http.StatusBadGateway, "Could not reach Google. Please try again.")
		return
	}

	logging.Debug("OAuth", "Redirecting session=%s to Google consent", logging.TruncateSessionID(sessionID))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback completes the connect flow.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		logging.Warn("OAuth", "OAuth callback received error: %s - %s",
			pkgstrings.Truncate(errorParam, maxLoggedParamLen),
			pkgstrings.Truncate(query.Get("error_description"), maxLoggedParamLen))
		h.fail(w, "", http.StatusBadRequest, "Google did not grant access.", providerErrorReason(errorParam))
		return
	}

	params := callbackParams{Code: query.Get("code"), State: query.Get("state")}
	if err := callbackValidator.Struct(params); err != nil {
		logging.Warn("OAuth", "OAuth callback with invalid parameters: %v", err)
		h.fail(w, "", http.StatusBadRequest, "Invalid callback: missing required parameters.", "invalid_request")
		return
	}

	pending := h.states.Consume(params.State)
	if pending == nil {
		h.fail(w, "", http.StatusBadRequest, "Authentication session expired. Please try again.", "invalid_state")
		return
	}

	if cookieID := session.ID(r); cookieID != pending.SessionID {
		logging.Warn("OAuth", "OAuth callback session mismatch: state=%s cookie=%s",
			logging.TruncateSessionID(pending.SessionID), logging.TruncateSessionID(cookieID))
		h.fail(w, pending.SessionID, http.StatusBadRequest, "Authentication session invalid. Please try again.", "session_mismatch")
		return
	}

	resp, err := h.provider.Exchange(r.Context(), params.Code, pending.Verifier)
	if err != nil {
		logging.Error("OAuth", err, "Failed to exchange authorization code")
		h.fail(w, pending.SessionID, http.StatusBadGateway, "Failed to complete authentication. Please try again.", "exchange_failed")
		return
	}

	h.manager.Store(r.Context(), w, pending.SessionID, resp)

	logging.Info("OAuth", "Connected Google account for session=%s (refresh=%t)",
		logging.TruncateSessionID(pending.SessionID), resp.RefreshToken != "")
	logging.Audit(logging.AuditEvent{
		Action:    "google_connect",
		Outcome:   "success",
		SessionID: logging.TruncateSessionID(pending.SessionID),
		Target:    "google",
	})
	h.metrics.RecordConnect("success")

	renderSuccessPage(w)
}

func (h *Handler) fail(w http.ResponseWriter, sessionID string, status int, message, reason string) {
	logging.Audit(logging.AuditEvent{
		Action:    "google_connect",
		Outcome:   "failure",
		SessionID: logging.TruncateSessionID(sessionID),
		Target:    "google",
		Error:     reason,
	})
	h.metrics.RecordConnect(reason)
	renderErrorPage(w, status, message)
}

// setSecurityHeaders sets recommended security headers for HTML responses.
func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - MaestroChat</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #f5f6f8;
            min-height: 100vh;
            margin: 0;
            display: flex;
            align-items: center;
            justify-content: center;
            color: #1f2430;
        }
        .card {
            text-align: center;
            padding: 2.5rem;
            background: #fff;
            border-radius: 12px;
            box-shadow: 0 2px 12px rgba(0, 0, 0, 0.08);
            max-width: 440px;
            margin: 1rem;
        }
        h1 { font-size: 1.5rem; margin: 0 0 1rem; color: %s; }
        p { color: #5a6070; line-height: 1.6; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
        <p>You can close this window and return to the chat.</p>
    </div>
</body>
</html>`

func renderPage(w http.ResponseWriter, status int, title, color, message string) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	safeTitle := html.EscapeString(title)
	_, _ = fmt.Fprintf(w, pageTemplate, safeTitle, color, safeTitle, html.EscapeString(message))
}

func renderSuccessPage(w http.ResponseWriter) {
	renderPage(w, http.StatusOK, "Google account connected", "#138a5b",
		"Calendar and Gmail access is now available to the assistant.")
}

func renderErrorPage(w http.ResponseWriter, status int, message string) {
	renderPage(w, status, "Connection failed", "#c2410c", message)
}
