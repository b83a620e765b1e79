package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/internal/connector"
	"github.com/rzmat/MaestroChat/internal/oauth"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// MetricsHandler serves the metrics endpoint.
type MetricsHandler interface {
	Handler() http.Handler
}

// Server is the MaestroChat HTTP API.
type Server struct {
	cfg        config.ServerConfig
	manager    *connector.Manager
	connect    *oauth.Handler
	metrics    MetricsHandler
	httpServer *http.Server
}

// New creates a Server. metrics may be nil, in which case /metrics is not
// registered.
func New(cfg config.ServerConfig, manager *connector.Manager, connect *oauth.Handler, metrics MetricsHandler) *Server {
	return &Server{
		cfg:     cfg,
		manager: manager,
		connect: connect,
		metrics: metrics,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Handler builds the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/google/auth", s.connect.HandleAuthorize)
	mux.HandleFunc("GET /api/google/callback", s.connect.HandleCallback)
	mux.HandleFunc("GET /api/google/status", s.handleStatus)
	mux.HandleFunc("POST /api/google/logout", s.handleLogout)
	mux.Handle("GET /api/tools", s.withFreshToken(http.HandlerFunc(s.handleTools)))

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return otelhttp.NewHandler(mux, "maestro",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("HTTP", "MaestroChat listening on http://%s", listener.Addr())
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logging.Info("HTTP", "Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Shutdown stops the HTTP server if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
