package session

import (
	"context"
	"sync"
	"time"

	"github.com/rzmat/MaestroChat/pkg/logging"
)

type memoryEntry struct {
	tokens    TokenSet
	expiresAt time.Time
}

// MemoryStore keeps token records in process memory. Records expire ttl
// after their last save and are swept by a background goroutine.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryStore creates an in-memory store and starts its cleanup loop.
// Call Close to stop it.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]memoryEntry),
		ttl:             ttl,
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go ms.cleanupLoop()

	return ms
}

// Get returns a copy of the record for id.
func (ms *MemoryStore) Get(_ context.Context, id string) (*TokenSet, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, ok := ms.entries[id]
	if !ok || ms.expired(entry) {
		return nil, nil
	}

	tokens := entry.tokens
	return &tokens, nil
}

// Save stores a copy of tokens and restarts the record's TTL.
func (ms *MemoryStore) Save(_ context.Context, id string, tokens *TokenSet) error {
	if tokens == nil {
		return nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry := memoryEntry{tokens: *tokens}
	if ms.ttl > 0 {
		entry.expiresAt = ms.now().Add(ms.ttl)
	}
	ms.entries[id] = entry
	logging.Debug("Session", "Stored tokens for session=%s", logging.TruncateSessionID(id))
	return nil
}

// Delete removes the record for id.
func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, id)
	logging.Debug("Session", "Deleted tokens for session=%s", logging.TruncateSessionID(id))
	return nil
}

// Count returns the number of records held, expired or not.
func (ms *MemoryStore) Count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (ms *MemoryStore) Close() error {
	ms.stopOnce.Do(func() { close(ms.stopCleanup) })
	return nil
}

func (ms *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !ms.now().Before(entry.expiresAt)
}

func (ms *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.cleanup()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) cleanup() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for id, entry := range ms.entries {
		if ms.expired(entry) {
			delete(ms.entries, id)
			count++
		}
	}

	if count > 0 {
		logging.Debug("Session", "Cleaned up %d expired sessions", count)
	}
}
