package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rzmat/MaestroChat/internal/connector"
	"github.com/rzmat/MaestroChat/internal/google"
	"github.com/rzmat/MaestroChat/internal/tools"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

type statusResponse struct {
	Connected bool   `json:"connected"`
	Outcome   string `json:"outcome"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Debug("HTTP", "Failed to encode response: %v", err)
	}
}

// writeConfigError answers a request that hit missing Google client
// credentials.
func writeConfigError(w http.ResponseWriter, err error) {
	logging.Error("HTTP", err, "Google connector is not configured")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "google_not_configured"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.GetFreshAccessToken(r.Context(), w, r)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Connected: res.Credentials.AccessToken != "" && res.Outcome != connector.RefreshFailed,
		Outcome:   res.Outcome.String(),
		ExpiresAt: res.Credentials.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Disconnect(r.Context(), w, r); err != nil {
		logging.Error("HTTP", err, "Failed to disconnect Google account")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "logout_failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	_, connected := AccessTokenFromContext(r.Context())
	writeJSON(w, http.StatusOK, tools.Get(r.Context(), tools.State{GoogleIntegrationEnabled: connected}))
}

// withFreshToken runs the freshness check before next and exposes the access
// token through the request context. Refresh failures do not block the
// request; next simply sees no token.
func (s *Server) withFreshToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := s.manager.GetFreshAccessToken(r.Context(), w, r)
		if err != nil {
			if errors.Is(err, google.ErrMissingClientCredentials) {
				writeConfigError(w, err)
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
			return
		}

		ctx := r.Context()
		if res.Outcome != connector.RefreshFailed && res.Credentials.AccessToken != "" {
			ctx = ContextWithAccessToken(ctx, res.Credentials.AccessToken)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
