package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/storetest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) session.Store {
		store := session.NewMemoryStore(0, session.WithMemoryClock(now))
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func newRecord(token string, now time.Time, ttl time.Duration) *session.Session {
	return &session.Session{
		ID:        "id-" + token,
		Token:     token,
		Data:      map[string]any{"user_id": "42"},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	clock := newTestClock()
	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	defer store.Close()

	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		sess := newRecord("token1", clock.Now(), time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		retrieved, err := store.FindOne(ctx, "token1")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, retrieved.ID)
		assert.Equal(t, sess.Data, retrieved.Data)
	})

	t.Run("duplicate token", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("dup", clock.Now(), time.Hour)))

		err := store.Insert(ctx, newRecord("dup", clock.Now(), time.Hour))
		assert.ErrorIs(t, err, session.ErrDuplicateToken)
	})

	t.Run("expired record does not block the token", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("stale", clock.Now(), -time.Second)))
		assert.NoError(t, store.Insert(ctx, newRecord("stale", clock.Now(), time.Hour)))
	})

	t.Run("data isolation", func(t *testing.T) {
		sess := newRecord("token2", clock.Now(), time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		sess.Data["user_id"] = "modified"

		retrieved, err := store.FindOne(ctx, "token2")
		require.NoError(t, err)
		val, _ := retrieved.GetString("user_id")
		assert.Equal(t, "42", val)

		retrieved.Data["user_id"] = "modified again"
		again, err := store.FindOne(ctx, "token2")
		require.NoError(t, err)
		val, _ = again.GetString("user_id")
		assert.Equal(t, "42", val)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := store.Insert(cctx, newRecord("canceled", clock.Now(), time.Hour))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStore_FindOne(t *testing.T) {
	clock := newTestClock()
	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	defer store.Close()

	ctx := context.Background()

	t.Run("non-existent session", func(t *testing.T) {
		_, err := store.FindOne(ctx, "nonexistent")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired session is hidden", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("short", clock.Now(), time.Minute)))

		clock.Advance(time.Minute)

		_, err := store.FindOne(ctx, "short")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestMemoryStore_FindAndUpdate(t *testing.T) {
	clock := newTestClock()
	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	defer store.Close()

	ctx := context.Background()

	t.Run("extends expiry", func(t *testing.T) {
		sess := newRecord("extend", clock.Now(), time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		target := sess.ExpiresAt.Add(time.Hour)
		updated, err := store.FindAndUpdate(ctx, "extend", session.Patch{ExtendExpiry: target})
		require.NoError(t, err)
		assert.Equal(t, target, updated.ExpiresAt)
	})

	t.Run("never shortens expiry", func(t *testing.T) {
		sess := newRecord("long", clock.Now(), 24*time.Hour)
		require.NoError(t, store.Insert(ctx, sess))

		updated, err := store.FindAndUpdate(ctx, "long", session.Patch{ExtendExpiry: clock.Now().Add(time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, sess.ExpiresAt, updated.ExpiresAt)
	})

	t.Run("sets nested data field", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("nested", clock.Now(), time.Hour)))

		updated, err := store.FindAndUpdate(ctx, "nested", session.Patch{
			Set: []session.FieldUpdate{{Path: "data.profile.role", Value: "admin"}},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"user_id": "42",
			"profile": map[string]any{"role": "admin"},
		}, updated.Data)

		stored, err := store.FindOne(ctx, "nested")
		require.NoError(t, err)
		assert.Equal(t, updated.Data, stored.Data)
	})

	t.Run("conflicting path leaves record untouched", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("conflict", clock.Now(), time.Hour)))

		_, err := store.FindAndUpdate(ctx, "conflict", session.Patch{
			Set: []session.FieldUpdate{{Path: "data.user_id.role", Value: "admin"}},
		})
		assert.ErrorIs(t, err, session.ErrInvalidFieldPath)

		stored, err := store.FindOne(ctx, "conflict")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"user_id": "42"}, stored.Data)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := store.FindAndUpdate(ctx, "missing", session.Patch{ExtendExpiry: clock.Now()})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired session is not revived", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, newRecord("gone", clock.Now(), time.Second)))
		clock.Advance(2 * time.Second)

		_, err := store.FindAndUpdate(ctx, "gone", session.Patch{ExtendExpiry: clock.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestMemoryStore_DeleteOne(t *testing.T) {
	store := session.NewMemoryStore(0)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord("delete-me", time.Now(), time.Hour)))
	require.NoError(t, store.DeleteOne(ctx, "delete-me"))

	_, err := store.FindOne(ctx, "delete-me")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.NoError(t, store.DeleteOne(ctx, "delete-me"))
	assert.NoError(t, store.DeleteOne(ctx, "never-existed"))
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	clock := newTestClock()
	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord("live", clock.Now(), time.Hour)))
	require.NoError(t, store.Insert(ctx, newRecord("dead", clock.Now(), time.Minute)))
	clock.Advance(2 * time.Minute)

	require.NoError(t, store.DeleteExpired(ctx))
	assert.Equal(t, 1, store.Len())

	_, err := store.FindOne(ctx, "live")
	assert.NoError(t, err)
}

func TestMemoryStore_CleanupLoop(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, newRecord("soon", time.Now(), 20*time.Millisecond)))

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStore_Close(t *testing.T) {
	store := session.NewMemoryStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
