package session_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

func TestDefaultConfig(t *testing.T) {
	cfg := session.DefaultConfig()

	assert.Equal(t, int64(3600000), cfg.Store.TTLMillis)
	assert.Equal(t, session.DefaultTTL, cfg.TTL())
	assert.Equal(t, "sessions", cfg.Store.Database)
	assert.Equal(t, "sessions", cfg.Store.Collection)
	assert.False(t, cfg.ShowLogs)
}

func TestConfig_TTL(t *testing.T) {
	tests := []struct {
		name   string
		millis int64
		want   time.Duration
	}{
		{name: "explicit", millis: 1000, want: time.Second},
		{name: "zero falls back", millis: 0, want: session.DefaultTTL},
		{name: "negative falls back", millis: -5, want: session.DefaultTTL},
		{name: "largest representable", millis: session.MaxTTLMillis, want: time.Duration(session.MaxTTLMillis) * time.Millisecond},
		{name: "beyond duration range is clamped", millis: math.MaxInt64, want: time.Duration(session.MaxTTLMillis) * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := session.Config{Store: session.StoreConfig{TTLMillis: tt.millis}}
			assert.Equal(t, tt.want, cfg.TTL())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.Store.URL = "memory://"
		cfg.Secret = "s3cret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing everything", func(t *testing.T) {
		err := session.Config{}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.url")
		assert.Contains(t, err.Error(), "secret")
	})

	t.Run("ttl out of range", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.Store.URL = "memory://"
		cfg.Secret = "s3cret"
		cfg.Store.TTLMillis = session.MaxTTLMillis + 1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.ttl")

		cfg.Store.TTLMillis = session.MaxTTLMillis
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := session.Config{Store: session.StoreConfig{URL: "memory://"}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "store.url")
	})
}

func TestNewFromConfig(t *testing.T) {
	issuer, err := token.NewIssuer(testSecret)
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	defer store.Close()

	cfg := session.DefaultConfig()
	cfg.Store.TTLMillis = 90_000
	cfg.ShowLogs = true

	svc, err := session.NewFromConfig(cfg, store, issuer)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, svc.TTL())

	svc, err = session.NewFromConfig(cfg, store, issuer, session.WithTTL(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, svc.TTL(), "explicit options win over config")

	_, err = session.NewFromConfig(cfg, nil, issuer)
	assert.ErrorIs(t, err, session.ErrNoStore)
}
