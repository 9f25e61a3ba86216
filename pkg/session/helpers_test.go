package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

const testSecret = "test-secret-key-that-is-long-enough"

// testClock is a manually advanced time source shared by service and store.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupService(t *testing.T, opts ...session.Option) (*session.Service, *session.MemoryStore, *testClock) {
	t.Helper()

	clock := newTestClock()
	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })

	issuer, err := token.NewIssuer(testSecret, token.WithClock(clock.Now))
	require.NoError(t, err)

	opts = append([]session.Option{session.WithClock(clock.Now)}, opts...)
	svc, err := session.New(store, issuer, opts...)
	require.NoError(t, err)

	return svc, store, clock
}

// failingStore returns err from every operation.
type failingStore struct {
	err error
}

func (f failingStore) Insert(context.Context, *session.Session) error { return f.err }

func (f failingStore) FindOne(context.Context, string) (*session.Session, error) {
	return nil, f.err
}

func (f failingStore) FindAndUpdate(context.Context, string, session.Patch) (*session.Session, error) {
	return nil, f.err
}

func (f failingStore) DeleteOne(context.Context, string) error { return f.err }

// staticIssuer always returns the same token.
type staticIssuer struct {
	token string
	err   error
}

func (s staticIssuer) Issue(any) (string, error) { return s.token, s.err }
