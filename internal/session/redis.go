package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rzmat/MaestroChat/pkg/logging"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "maestro:session:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore keeps token records as JSON strings in Redis, one key per
// session, each with a TTL that restarts on every save.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisStoreFromClient(client, opts.Prefix, opts.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. An empty prefix uses
// DefaultRedisPrefix.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (rs *RedisStore) key(id string) string {
	return rs.prefix + id
}

// Get loads and decodes the record for id.
func (rs *RedisStore) Get(ctx context.Context, id string) (*TokenSet, error) {
	data, err := rs.client.Get(ctx, rs.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", logging.TruncateSessionID(id), err)
	}

	var tokens TokenSet
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", logging.TruncateSessionID(id), err)
	}
	return &tokens, nil
}

// Save encodes tokens and writes them with the store TTL.
func (rs *RedisStore) Save(ctx context.Context, id string, tokens *TokenSet) error {
	if tokens == nil {
		return nil
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := rs.client.Set(ctx, rs.key(id), data, rs.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", logging.TruncateSessionID(id), err)
	}
	logging.Debug("Session", "Stored tokens for session=%s in redis", logging.TruncateSessionID(id))
	return nil
}

// Delete removes the record for id.
func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	if err := rs.client.Del(ctx, rs.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", logging.TruncateSessionID(id), err)
	}
	return nil
}

// Close closes the underlying client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
