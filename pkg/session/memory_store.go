package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage.
// Suitable for tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the clock used to decide expiry.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory session store.
// A positive cleanupInterval starts a background sweep of expired sessions.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(store)
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Insert stores a new session
func (m *MemoryStore) Insert(ctx context.Context, session *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[session.Token]; ok && !existing.IsExpired(m.now()) {
		return ErrDuplicateToken
	}

	m.sessions[session.Token] = session.Clone()
	return nil
}

// FindOne retrieves a live session by token
func (m *MemoryStore) FindOne(ctx context.Context, token string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// expired records stay until the sweep, but are never visible
	session, exists := m.sessions[token]
	if !exists || session.IsExpired(m.now()) {
		return nil, ErrSessionNotFound
	}

	return session.Clone(), nil
}

// FindAndUpdate applies the patch under the store lock
func (m *MemoryStore) FindAndUpdate(ctx context.Context, token string, patch Patch) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired(m.now()) {
		delete(m.sessions, token)
		return nil, ErrSessionNotFound
	}

	updated := session.Clone()
	if err := patch.Apply(updated); err != nil {
		return nil, err
	}
	m.sessions[token] = updated

	return updated.Clone(), nil
}

// DeleteOne removes a session by token
func (m *MemoryStore) DeleteOne(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for token, session := range m.sessions {
		if session.IsExpired(now) {
			delete(m.sessions, token)
		}
	}

	return nil
}

// Len returns the number of stored records, including expired ones
// the sweep has not reached yet.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
