package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/internal/connector"
	"github.com/rzmat/MaestroChat/internal/google"
	"github.com/rzmat/MaestroChat/internal/metrics"
	"github.com/rzmat/MaestroChat/internal/oauth"
	"github.com/rzmat/MaestroChat/internal/session"
)

type stubGoogle struct {
	refreshResp *google.TokenResponse
	refreshErr  error
	authErr     error
}

func (s *stubGoogle) Refresh(context.Context, string) (*google.TokenResponse, error) {
	return s.refreshResp, s.refreshErr
}

func (s *stubGoogle) AuthCodeURL(_ context.Context, state, _ string) (string, error) {
	if s.authErr != nil {
		return "", s.authErr
	}
	return "https://accounts.example.com/auth?state=" + state, nil
}

func (s *stubGoogle) Exchange(context.Context, string, string) (*google.TokenResponse, error) {
	return &google.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600, HasExpiresIn: true}, nil
}

type testServer struct {
	google  *stubGoogle
	store   *session.MemoryStore
	metrics *metrics.Registry
	server  *Server
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		google:  &stubGoogle{},
		store:   session.NewMemoryStore(time.Hour),
		metrics: metrics.New(),
	}
	states := oauth.NewStateStore(oauth.DefaultStateExpiry)
	t.Cleanup(func() {
		_ = ts.store.Close()
		states.Stop()
	})

	manager := connector.NewManager(ts.google, ts.store, connector.DefaultCookieOptions(false),
		connector.WithRecorder(ts.metrics))
	connect := oauth.NewHandler(ts.google, manager, states, ts.metrics)

	ts.server = New(config.GetDefaultConfig().Server, manager, connect, ts.metrics)
	ts.handler = ts.server.Handler()
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func withCookies(req *http.Request, cookies map[string]string) *http.Request {
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return req
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestStatus(t *testing.T) {
	future := strconv.FormatInt(time.Now().Add(time.Hour).UnixMilli(), 10)

	tests := []struct {
		name        string
		cookies     map[string]string
		refreshResp *google.TokenResponse
		refreshErr  error
		wantStatus  int
		wantOutcome string
		wantConn    bool
	}{
		{
			name:        "not connected",
			wantStatus:  http.StatusOK,
			wantOutcome: "unchanged",
		},
		{
			name: "fresh token",
			cookies: map[string]string{
				connector.AccessTokenCookie:  "A",
				connector.RefreshTokenCookie: "R",
				connector.ExpiresAtCookie:    future,
			},
			wantStatus:  http.StatusOK,
			wantOutcome: "unchanged",
			wantConn:    true,
		},
		{
			name:        "refreshed",
			cookies:     map[string]string{connector.RefreshTokenCookie: "R"},
			refreshResp: &google.TokenResponse{AccessToken: "A2", ExpiresIn: 3600, HasExpiresIn: true},
			wantStatus:  http.StatusOK,
			wantOutcome: "refreshed",
			wantConn:    true,
		},
		{
			name:        "refresh failed",
			cookies:     map[string]string{connector.RefreshTokenCookie: "R"},
			refreshErr:  errors.New("invalid_grant"),
			wantStatus:  http.StatusOK,
			wantOutcome: "refresh_failed",
		},
		{
			name:       "not configured",
			cookies:    map[string]string{connector.RefreshTokenCookie: "R"},
			refreshErr: google.ErrMissingClientCredentials,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.google.refreshResp = tt.refreshResp
			ts.google.refreshErr = tt.refreshErr

			rr := ts.do(withCookies(httptest.NewRequest(http.MethodGet, "/api/google/status", nil), tt.cookies))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rr.Body.String(), "google_not_configured")
				return
			}

			var body statusResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantOutcome, body.Outcome)
			assert.Equal(t, tt.wantConn, body.Connected)
			assert.NotContains(t, rr.Body.String(), "A2", "tokens are never echoed")
		})
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Save(context.Background(), "s1", &session.TokenSet{AccessToken: "A"}))

	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/google/logout", nil),
		map[string]string{session.CookieName: "s1"})
	rr := ts.do(req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	stored, err := ts.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Len(t, rr.Result().Cookies(), 3)
}

func TestLogoutRequiresPost(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/api/google/logout", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestTools(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/api/tools", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestTools_MissingCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.google.refreshErr = google.ErrMissingClientCredentials

	req := withCookies(httptest.NewRequest(http.MethodGet, "/api/tools", nil),
		map[string]string{connector.RefreshTokenCookie: "R"})
	rr := ts.do(req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWithFreshToken_ExposesAccessToken(t *testing.T) {
	ts := newTestServer(t)
	ts.google.refreshResp = &google.TokenResponse{AccessToken: "A2", ExpiresIn: 3600, HasExpiresIn: true}

	var seen string
	h := ts.server.withFreshToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AccessTokenFromContext(r.Context())
	}))

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil),
		map[string]string{connector.RefreshTokenCookie: "R"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "A2", seen)
}

func TestConnectFlowRoutes(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/api/google/auth", nil))
	require.Equal(t, http.StatusFound, rr.Code)

	location := rr.Header().Get("Location")
	state := location[strings.Index(location, "state=")+len("state="):]

	var sessionID string
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionID = c.Value
		}
	}
	require.NotEmpty(t, sessionID)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/api/google/callback?code=c&state="+state, nil),
		map[string]string{session.CookieName: sessionID})
	rr = ts.do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	stored, err := ts.store.Get(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "refresh", stored.RefreshToken)
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	ts.do(httptest.NewRequest(http.MethodGet, "/api/google/status", nil))

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `maestro_token_refresh_total{outcome="unchanged"} 1`)
}

func TestContextAccessToken(t *testing.T) {
	_, ok := AccessTokenFromContext(context.Background())
	assert.False(t, ok)

	_, ok = AccessTokenFromContext(ContextWithAccessToken(context.Background(), ""))
	assert.False(t, ok)

	token, ok := AccessTokenFromContext(ContextWithAccessToken(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestStartAndShutdown(t *testing.T) {
	ts := newTestServer(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := config.GetDefaultConfig().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	ts.server.cfg = cfg

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.server.Start(ctx) }()

	url := "http://" + ts.server.Addr() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	ts := newTestServer(t)
	assert.NoError(t, ts.server.Shutdown(context.Background()))
}
