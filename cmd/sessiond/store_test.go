package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("memory", func(t *testing.T) {
		be, err := openStore(ctx, session.StoreConfig{URL: "memory://"}, log)
		require.NoError(t, err)
		t.Cleanup(func() { _ = be.close(ctx) })

		assert.Equal(t, "memory", be.kind)
		assert.IsType(t, &session.MemoryStore{}, be.store)
		assert.NoError(t, be.ready(ctx))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := openStore(ctx, session.StoreConfig{URL: "mysql://localhost/db"}, log)
		assert.ErrorIs(t, err, errUnsupportedStore)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := openStore(ctx, session.StoreConfig{URL: "://nope"}, log)
		assert.Error(t, err)
	})
}
