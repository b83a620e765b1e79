package connector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rzmat/MaestroChat/internal/google"
	"github.com/rzmat/MaestroChat/internal/session"
	"github.com/rzmat/MaestroChat/pkg/logging"
	"github.com/rzmat/MaestroChat/pkg/oauth"
)

// Outcome describes what GetFreshAccessToken did.
type Outcome int

const (
	// Unchanged means no refresh was needed.
	Unchanged Outcome = iota
	// Refreshed means a refresh succeeded and was persisted.
	Refreshed
	// RefreshFailed means a refresh was attempted and failed; the returned
	// credentials are the stale ones that were loaded.
	RefreshFailed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Refreshed:
		return "refreshed"
	case RefreshFailed:
		return "refresh_failed"
	default:
		return "unknown"
	}
}

// Result is the credential record after a freshness check.
type Result struct {
	Credentials oauth.Credentials
	Outcome     Outcome
	// Err holds the grant error when Outcome is RefreshFailed.
	Err error
}

// Refresher performs the refresh_token grant.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*google.TokenResponse, error)
}

// Recorder receives one observation per freshness check.
type Recorder interface {
	RecordRefresh(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRefresh(string) {}

// Manager reads, refreshes and persists Google credentials for a request.
type Manager struct {
	refresher Refresher
	store     session.Store
	cookies   CookieOptions
	metrics   Recorder
	margin    time.Duration
	now       func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.metrics = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithExpiryMargin overrides how close to expiry a token must be before it
// is refreshed.
func WithExpiryMargin(margin time.Duration) Option {
	return func(m *Manager) {
		m.margin = margin
	}
}

// NewManager creates a Manager.
func NewManager(refresher Refresher, store session.Store, cookies CookieOptions, opts ...Option) *Manager {
	m := &Manager{
		refresher: refresher,
		store:     store,
		cookies:   cookies,
		metrics:   nopRecorder{},
		margin:    oauth.DefaultExpiryMargin,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CookieOptions returns the cookie attributes the manager writes with.
func (m *Manager) CookieOptions() CookieOptions {
	return m.cookies
}

// loaded is what Load found for a request.
type loaded struct {
	sessionID   string
	record      *session.TokenSet
	credentials oauth.Credentials
}

func (m *Manager) load(ctx context.Context, r *http.Request) loaded {
	l := loaded{sessionID: session.ID(r)}

	if l.sessionID != "" {
		record, err := m.store.Get(ctx, l.sessionID)
		if err != nil {
			logging.Warn("Connector", "Session lookup failed for session=%s, using cookies only: %v",
				logging.TruncateSessionID(l.sessionID), err)
		} else {
			l.record = record
		}
	}

	l.credentials = mergeCredentials(ReadCookies(r), l.record.Credentials())
	logging.Debug("Connector", "Loaded credentials for session=%s: %+v",
		logging.TruncateSessionID(l.sessionID), l.credentials.Redacted())
	return l
}

// Load returns the current credentials without refreshing.
func (m *Manager) Load(ctx context.Context, r *http.Request) oauth.Credentials {
	return m.load(ctx, r).credentials
}

// GetFreshAccessToken returns credentials whose access token is not about to
// expire, refreshing them first when needed and possible.
//
// The returned error is non-nil only for configuration problems, and then
// wraps google.ErrMissingClientCredentials.
func (m *Manager) GetFreshAccessToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (Result, error) {
	l := m.load(ctx, r)
	creds := l.credentials

	if !creds.ShouldRefresh(m.now(), m.margin) {
		m.metrics.RecordRefresh(Unchanged.String())
		return Result{Credentials: creds, Outcome: Unchanged}, nil
	}

	logging.Debug("Connector", "Refreshing access token for session=%s (access=%t, expires_at=%s)",
		logging.TruncateSessionID(l.sessionID), creds.AccessToken != "", creds.ExpiresAtString())

	resp, err := m.refresher.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		if errors.Is(err, google.ErrMissingClientCredentials) {
			m.metrics.RecordRefresh("config_error")
			return Result{Credentials: creds, Outcome: RefreshFailed, Err: err},
				fmt.Errorf("google client is not configured: %w", err)
		}

		logging.Warn("Connector", "Token refresh failed for session=%s: %v",
			logging.TruncateSessionID(l.sessionID), err)
		logging.Audit(logging.AuditEvent{
			Action:    "token_refresh",
			Outcome:   "failure",
			SessionID: logging.TruncateSessionID(l.sessionID),
			Target:    "google",
			Error:     err.Error(),
		})
		m.metrics.RecordRefresh(RefreshFailed.String())
		return Result{Credentials: creds, Outcome: RefreshFailed, Err: err}, nil
	}

	updated := m.apply(creds, resp)
	m.persist(ctx, w, l.sessionID, l.record, updated)

	logging.Audit(logging.AuditEvent{
		Action:    "token_refresh",
		Outcome:   "success",
		SessionID: logging.TruncateSessionID(l.sessionID),
		Target:    "google",
	})
	m.metrics.RecordRefresh(Refreshed.String())
	return Result{Credentials: updated, Outcome: Refreshed}, nil
}

// apply folds a token response into the current credentials. Fields the
// provider left out keep their previous values; an explicit expires_in of
// zero sets the expiry to now.
func (m *Manager) apply(current oauth.Credentials, resp *google.TokenResponse) oauth.Credentials {
	updated := current
	updated.AccessToken = firstNonEmpty(resp.AccessToken, current.AccessToken)
	updated.RefreshToken = firstNonEmpty(resp.RefreshToken, current.RefreshToken)
	if resp.HasExpiresIn {
		updated.ExpiresAt = m.now().UnixMilli() + resp.ExpiresIn*1000
	}
	return updated
}

// Store writes credentials obtained outside of a refresh, such as from the
// authorization code exchange.
func (m *Manager) Store(ctx context.Context, w http.ResponseWriter, sessionID string, resp *google.TokenResponse) oauth.Credentials {
	var existing *session.TokenSet
	if sessionID != "" {
		record, err := m.store.Get(ctx, sessionID)
		if err != nil {
			logging.Warn("Connector", "Session lookup failed for session=%s: %v",
				logging.TruncateSessionID(sessionID), err)
		}
		existing = record
	}

	creds := m.apply(existing.Credentials(), resp)
	m.persist(ctx, w, sessionID, withExtras(existing, resp), creds)
	return creds
}

func withExtras(existing *session.TokenSet, resp *google.TokenResponse) *session.TokenSet {
	record := &session.TokenSet{}
	if existing != nil {
		*record = *existing
	}
	if resp.Scope != "" {
		record.Scope = resp.Scope
	}
	if resp.IDToken != "" {
		record.IDToken = resp.IDToken
	}
	return record
}

// persist writes creds to cookies and, when the request has a session, to
// the session store.
func (m *Manager) persist(ctx context.Context, w http.ResponseWriter, sessionID string, existing *session.TokenSet, creds oauth.Credentials) {
	WriteCookies(w, creds, m.cookies)

	if sessionID == "" {
		return
	}
	record := session.Merge(existing, creds, m.now())
	if err := m.store.Save(ctx, sessionID, record); err != nil {
		logging.Error("Connector", err, "Failed to save tokens for session=%s",
			logging.TruncateSessionID(sessionID))
	}
}

// Disconnect clears the credential cookies and the session record.
func (m *Manager) Disconnect(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ClearCookies(w, m.cookies)

	sessionID := session.ID(r)
	if sessionID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	logging.Audit(logging.AuditEvent{
		Action:    "google_disconnect",
		Outcome:   "success",
		SessionID: logging.TruncateSessionID(sessionID),
		Target:    "google",
	})
	return nil
}
