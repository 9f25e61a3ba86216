// Package storetest provides a conformance suite for session.Store
// implementations. Backends call Run from their own tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts at the current wall time truncated to milliseconds,
// the precision every backend can store.
func NewClock() *Clock {
	return &Clock{now: time.Now().UTC().Truncate(time.Millisecond)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Factory returns a fresh, empty store whose expiry filter reads now.
type Factory func(t *testing.T, now func() time.Time) session.Store

// Run exercises the Store contract against the stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("insert then find", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		sess := record("t-find", clock.Now(), time.Hour)
		sess.UserAgent = "curl/8.0"
		sess.Data["profile"] = map[string]any{"name": "Jane", "verified": true}
		require.NoError(t, store.Insert(ctx, sess))

		got, err := store.FindOne(ctx, "t-find")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.Token, got.Token)
		assert.Equal(t, sess.UserAgent, got.UserAgent)
		assert.Equal(t, sess.Data, got.Data)
		assertSameInstant(t, sess.CreatedAt, got.CreatedAt)
		assertSameInstant(t, sess.ExpiresAt, got.ExpiresAt)
	})

	t.Run("duplicate token", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, record("t-dup", clock.Now(), time.Hour)))
		err := store.Insert(ctx, record("t-dup", clock.Now(), time.Hour))
		assert.ErrorIs(t, err, session.ErrDuplicateToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		_, err := store.FindOne(ctx, "t-missing")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		_, err = store.FindAndUpdate(ctx, "t-missing", session.Patch{ExtendExpiry: clock.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired session is never returned", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, record("t-exp", clock.Now(), time.Minute)))
		clock.Advance(time.Minute)

		_, err := store.FindOne(ctx, "t-exp")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		_, err = store.FindAndUpdate(ctx, "t-exp", session.Patch{ExtendExpiry: clock.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("renewal moves expiry forward only", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		sess := record("t-renew", clock.Now(), time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		later := sess.ExpiresAt.Add(30 * time.Minute)
		got, err := store.FindAndUpdate(ctx, "t-renew", session.Patch{ExtendExpiry: later})
		require.NoError(t, err)
		assertSameInstant(t, later, got.ExpiresAt)
		assert.Equal(t, sess.Data, got.Data)

		got, err = store.FindAndUpdate(ctx, "t-renew", session.Patch{ExtendExpiry: clock.Now().Add(time.Minute)})
		require.NoError(t, err)
		assertSameInstant(t, later, got.ExpiresAt)
	})

	t.Run("numbers and arrays survive renewal and edits", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		sess := record("t-numeric", clock.Now(), time.Hour)
		sess.Data = map[string]any{
			"user_id": int64(9007199254740993),
			"count":   7,
			"ratio":   1.5,
			"tags":    []any{1, "two", []any{3.25}, map[string]any{"n": int64(-4)}},
		}
		want := map[string]any{
			"user_id": int64(9007199254740993),
			"count":   7,
			"ratio":   1.5,
			"tags":    []any{1, "two", []any{3.25}, map[string]any{"n": int64(-4)}},
		}
		require.NoError(t, store.Insert(ctx, sess))

		got, err := store.FindOne(ctx, "t-numeric")
		require.NoError(t, err)
		assertSameData(t, want, got.Data)

		renewed, err := store.FindAndUpdate(ctx, "t-numeric", session.Patch{ExtendExpiry: sess.ExpiresAt.Add(time.Minute)})
		require.NoError(t, err)
		assertSameData(t, want, renewed.Data)

		got, err = store.FindOne(ctx, "t-numeric")
		require.NoError(t, err)
		assertSameData(t, want, got.Data)
		assert.Equal(t, "9007199254740993", fmt.Sprint(got.Data["user_id"]))

		_, err = store.FindAndUpdate(ctx, "t-numeric", session.Patch{
			Set: []session.FieldUpdate{{Path: "data.role", Value: "admin"}},
		})
		require.NoError(t, err)
		want["role"] = "admin"

		got, err = store.FindOne(ctx, "t-numeric")
		require.NoError(t, err)
		assertSameData(t, want, got.Data)
	})

	t.Run("field update touches only the target", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		sess := record("t-edit", clock.Now(), time.Hour)
		sess.Data["role"] = "user"
		require.NoError(t, store.Insert(ctx, sess))

		got, err := store.FindAndUpdate(ctx, "t-edit", session.Patch{
			Set: []session.FieldUpdate{
				{Path: "data.role", Value: "admin"},
				{Path: "data.profile.theme", Value: "dark"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"user_id": "42",
			"role":    "admin",
			"profile": map[string]any{"theme": "dark"},
		}, got.Data)
		assertSameInstant(t, sess.ExpiresAt, got.ExpiresAt)

		stored, err := store.FindOne(ctx, "t-edit")
		require.NoError(t, err)
		assert.Equal(t, got.Data, stored.Data)
	})

	t.Run("replace whole data", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, record("t-root", clock.Now(), time.Hour)))

		got, err := store.FindAndUpdate(ctx, "t-root", session.Patch{
			Set: []session.FieldUpdate{{Path: "data", Value: map[string]any{"fresh": "yes"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"fresh": "yes"}, got.Data)
	})

	t.Run("path through a scalar is rejected", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, record("t-scalar", clock.Now(), time.Hour)))

		_, err := store.FindAndUpdate(ctx, "t-scalar", session.Patch{
			Set: []session.FieldUpdate{{Path: "data.user_id.nested", Value: "x"}},
		})
		assert.ErrorIs(t, err, session.ErrInvalidFieldPath)

		stored, err := store.FindOne(ctx, "t-scalar")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"user_id": "42"}, stored.Data)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		require.NoError(t, store.Insert(ctx, record("t-del", clock.Now(), time.Hour)))
		require.NoError(t, store.DeleteOne(ctx, "t-del"))
		require.NoError(t, store.DeleteOne(ctx, "t-del"))
		require.NoError(t, store.DeleteOne(ctx, "t-never"))

		_, err := store.FindOne(ctx, "t-del")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("concurrent renewals keep the maximum", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		sess := record("t-race", clock.Now(), time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		const n = 16
		g, gctx := errgroup.WithContext(ctx)
		for i := range n {
			g.Go(func() error {
				target := sess.ExpiresAt.Add(time.Duration(i+1) * time.Second)
				_, err := store.FindAndUpdate(gctx, "t-race", session.Patch{ExtendExpiry: target})
				return err
			})
		}
		require.NoError(t, g.Wait())

		stored, err := store.FindOne(ctx, "t-race")
		require.NoError(t, err)
		assertSameInstant(t, sess.ExpiresAt.Add(n*time.Second), stored.ExpiresAt)
	})

	t.Run("concurrent inserts of one token", func(t *testing.T) {
		clock := NewClock()
		store := newStore(t, clock.Now)
		ctx := context.Background()

		const n = 8
		var (
			mu      sync.Mutex
			success int
		)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := record("t-once", clock.Now(), time.Hour)
				rec.ID = fmt.Sprintf("id-%d", i)
				if err := store.Insert(ctx, rec); err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, success)
	})
}

func record(token string, now time.Time, ttl time.Duration) *session.Session {
	return &session.Session{
		ID:        "id-" + token,
		Token:     token,
		Data:      map[string]any{"user_id": "42"},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// assertSameData compares data by its JSON form. Backends may hand numbers
// back as int32, int64 or json.Number; any of them must print the exact value.
func assertSameData(t *testing.T, want, got map[string]any) {
	t.Helper()

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(wantJSON), string(gotJSON))
}

func assertSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}
