package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rzmat/MaestroChat/pkg/logging"
)

// DefaultStateExpiry is how long a connect attempt may take before its state
// is rejected.
const DefaultStateExpiry = 10 * time.Minute

// PendingAuth is what the authorize step remembers for the callback.
type PendingAuth struct {
	SessionID string
	// Verifier is the PKCE code verifier sent with the code exchange.
	Verifier  string
	CreatedAt time.Time
}

// StateStore keeps pending authorizations keyed by their opaque state value.
// Each state can be consumed once.
type StateStore struct {
	mu      sync.Mutex
	pending map[string]*PendingAuth
	expiry  time.Duration
	now     func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewStateStore creates a state store and starts its cleanup loop.
func NewStateStore(expiry time.Duration) *StateStore {
	if expiry <= 0 {
		expiry = DefaultStateExpiry
	}
	ss := &StateStore{
		pending:     make(map[string]*PendingAuth),
		expiry:      expiry,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go ss.cleanupLoop()

	return ss
}

// Generate records a pending authorization and returns its state value.
func (ss *StateStore) Generate(sessionID, verifier string) string {
	state := uuid.NewString()

	ss.mu.Lock()
	ss.pending[state] = &PendingAuth{
		SessionID: sessionID,
		Verifier:  verifier,
		CreatedAt: ss.now(),
	}
	ss.mu.Unlock()

	logging.Debug("OAuth", "Generated state for session=%s", logging.TruncateSessionID(sessionID))
	return state
}

// Consume returns and forgets the pending authorization for state. It
// returns nil for unknown, already used or expired states.
func (ss *StateStore) Consume(state string) *PendingAuth {
	ss.mu.Lock()
	pending, ok := ss.pending[state]
	delete(ss.pending, state)
	ss.mu.Unlock()

	if !ok {
		logging.Warn("OAuth", "Unknown or already used state")
		return nil
	}
	if age := ss.now().Sub(pending.CreatedAt); age > ss.expiry {
		logging.Warn("OAuth", "State expired for session=%s age=%v",
			logging.TruncateSessionID(pending.SessionID), age)
		return nil
	}
	return pending
}

// Len returns the number of pending authorizations.
func (ss *StateStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.pending)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (ss *StateStore) Stop() {
	ss.stopOnce.Do(func() { close(ss.stopCleanup) })
}

func (ss *StateStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ss.cleanup()
		case <-ss.stopCleanup:
			return
		}
	}
}

func (ss *StateStore) cleanup() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	count := 0
	for state, pending := range ss.pending {
		if ss.now().Sub(pending.CreatedAt) > ss.expiry {
			delete(ss.pending, state)
			count++
		}
	}

	if count > 0 {
		logging.Debug("OAuth", "Cleaned up %d expired states", count)
	}
}
