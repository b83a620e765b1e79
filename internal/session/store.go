package session

import (
	"context"
	"fmt"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/pkg/logging"
)

// Store persists token records keyed by session identifier.
type Store interface {
	// Get returns the record for id, or (nil, nil) when there is none.
	Get(ctx context.Context, id string) (*TokenSet, error)
	// Save replaces the record for id.
	Save(ctx context.Context, id string, tokens *TokenSet) error
	// Delete removes the record for id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases background resources.
	Close() error
}

// NewStore builds the store selected by cfg.Backend.
func NewStore(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory, "":
		logging.Info("Session", "Using in-memory session store (ttl=%v)", cfg.TTL)
		return NewMemoryStore(cfg.TTL), nil
	case config.SessionBackendRedis:
		store, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, err
		}
		logging.Info("Session", "Using redis session store at %s (db=%d)", cfg.RedisAddr, cfg.RedisDB)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
