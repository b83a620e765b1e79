package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

// ErrMissingClientCredentials is returned when GOOGLE_CLIENT_ID or
// GOOGLE_CLIENT_SECRET is not configured.
var ErrMissingClientCredentials = errors.New("missing GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET")

// defaultHTTPTimeout bounds discovery and token endpoint calls.
const defaultHTTPTimeout = 30 * time.Second

// TokenResponse is the subset of a token endpoint response the connector keeps.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the lifetime in seconds. It is only meaningful when
	// HasExpiresIn is set; an explicit zero means "already expired".
	ExpiresIn    int64
	HasExpiresIn bool
	Scope        string
	IDToken      string
}

// Provider lazily resolves Google's OAuth endpoints and performs grants.
type Provider struct {
	cfg        config.GoogleConfig
	httpClient *http.Client
	now        func() time.Time

	mu           sync.RWMutex
	oauth2Config *oauth2.Config
	group        singleflight.Group
}

// Option customizes a Provider.
type Option func(*Provider)

// WithHTTPClient sets the client used for discovery and token calls.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithClock overrides the time source used to derive expires_in.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a Provider. No network calls are made until a grant or
// authorization URL is requested.
func NewProvider(cfg config.GoogleConfig, opts ...Option) *Provider {
	p := &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the discovered OAuth client configuration.
func (p *Provider) Config(ctx context.Context) (*oauth2.Config, error) {
	if !p.cfg.HasClientCredentials() {
		return nil, ErrMissingClientCredentials
	}

	p.mu.RLock()
	cached := p.oauth2Config
	p.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	// Discovery is shared, so it runs detached from any one caller's
	// cancellation and is bounded by the HTTP client timeout.
	discoverCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(p.cfg.Issuer, func() (interface{}, error) {
		p.mu.RLock()
		cached := p.oauth2Config
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		discovered, err := p.discover(discoverCtx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.oauth2Config = discovered
		p.mu.Unlock()
		return discovered, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.Debug("Google", "Shared in-flight discovery for issuer=%s", p.cfg.Issuer)
		}
		return res.Val.(*oauth2.Config), nil
	}
}

func (p *Provider) discover(ctx context.Context) (*oauth2.Config, error) {
	logging.Debug("Google", "Discovering OpenID configuration for issuer=%s", p.cfg.Issuer)

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, p.httpClient), p.cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s: %w", p.cfg.Issuer, err)
	}

	logging.Info("Google", "Discovered OAuth endpoints for issuer=%s", p.cfg.Issuer)

	return &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  p.cfg.RedirectURI,
		Endpoint:     provider.Endpoint(),
		Scopes:       p.cfg.Scopes,
	}, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// Refresh performs the refresh_token grant. When the server does not rotate
// the refresh token, the returned RefreshToken is empty.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	conf, err := p.Config(ctx)
	if err != nil {
		return nil, err
	}

	tok, err := conf.TokenSource(p.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	resp := p.toResponse(tok)
	if resp.RefreshToken == refreshToken {
		resp.RefreshToken = ""
	}

	logging.Debug("Google", "Refreshed access token (expires_in=%d)", resp.ExpiresIn)
	return resp, nil
}

// Exchange trades an authorization code (and its PKCE verifier) for tokens.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*TokenResponse, error) {
	conf, err := p.Config(ctx)
	if err != nil {
		return nil, err
	}

	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	tok, err := conf.Exchange(p.clientContext(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	resp := p.toResponse(tok)
	logging.Debug("Google", "Exchanged authorization code (expires_in=%d, refresh=%t)",
		resp.ExpiresIn, resp.RefreshToken != "")
	return resp, nil
}

// AuthCodeURL builds the consent URL. Offline access and a forced consent
// prompt make Google issue a refresh token on every connect.
func (p *Provider) AuthCodeURL(ctx context.Context, state, verifier string) (string, error) {
	conf, err := p.Config(ctx)
	if err != nil {
		return "", err
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}

	return conf.AuthCodeURL(state, opts...), nil
}

func (p *Provider) toResponse(tok *oauth2.Token) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	resp.ExpiresIn, resp.HasExpiresIn = p.expiresIn(tok)
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		resp.IDToken = idToken
	}
	return resp
}

// expiresIn prefers the raw expires_in field and falls back to the parsed
// expiry. It reports false when the server sent no lifetime at all.
func (p *Provider) expiresIn(tok *oauth2.Token) (int64, bool) {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return clampSeconds(int64(v)), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return clampSeconds(n), true
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return clampSeconds(n), true
		}
	}

	if tok.Expiry.IsZero() {
		return 0, false
	}
	remaining := tok.Expiry.Sub(p.now())
	if remaining <= 0 {
		return 0, true
	}
	return int64(remaining.Round(time.Second) / time.Second), true
}

func clampSeconds(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
