package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rzmat/MaestroChat/internal/connector"
	"github.com/rzmat/MaestroChat/internal/google"
	"github.com/rzmat/MaestroChat/internal/metrics"
	"github.com/rzmat/MaestroChat/internal/oauth"
	"github.com/rzmat/MaestroChat/internal/server"
	"github.com/rzmat/MaestroChat/internal/session"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

// googleHTTPTimeout bounds every call to Google.
const googleHTTPTimeout = 30 * time.Second

// Services holds everything the server needs, wired in dependency order:
// session store, Google provider, metrics, freshness manager, connect flow
// and finally the HTTP server.
type Services struct {
	Store    session.Store
	Provider *google.Provider
	Metrics  *metrics.Registry
	Manager  *connector.Manager
	States   *oauth.StateStore
	Server   *server.Server
}

// InitializeServices creates all services from cfg.MaestroConfig.
func InitializeServices(ctx context.Context, cfg *Config) (*Services, error) {
	mc := cfg.MaestroConfig

	store, err := session.NewStore(ctx, mc.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	httpClient := &http.Client{
		Timeout:   googleHTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	provider := google.NewProvider(mc.Google, google.WithHTTPClient(httpClient))

	registry := metrics.New()
	manager := connector.NewManager(provider, store, connector.DefaultCookieOptions(mc.IsProduction()),
		connector.WithRecorder(registry))

	states := oauth.NewStateStore(oauth.DefaultStateExpiry)
	connect := oauth.NewHandler(provider, manager, states, registry)

	srv := server.New(mc.Server, manager, connect, registry)

	logging.Info("Bootstrap", "Services initialized (environment=%s, session backend=%s, secure cookies=%t)",
		mc.Environment, mc.Session.Backend, mc.IsProduction())

	return &Services{
		Store:    store,
		Provider: provider,
		Metrics:  registry,
		Manager:  manager,
		States:   states,
		Server:   srv,
	}, nil
}

// Close stops background goroutines and closes the session store.
func (s *Services) Close() error {
	var errs []error
	if s.States != nil {
		s.States.Stop()
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session store: %w", err))
		}
	}
	return errors.Join(errs...)
}
