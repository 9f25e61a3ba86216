//go:build integration

package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
	"github.com/dmitrymomot/sessionkit/pkg/session/storetest"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "redis")
	require.NoError(t, err)

	cfg := redis.DefaultConfig(endpoint + "/0")
	cfg.RetryInterval = time.Second
	client, err := redis.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, redis.Healthcheck(client)(ctx))

	return client
}

func TestStore_Conformance(t *testing.T) {
	client := startRedis(t)

	storetest.Run(t, func(t *testing.T, now func() time.Time) session.Store {
		return redisstore.New(client,
			redisstore.WithPrefix("test:"+uuid.NewString()[:8]+":"),
			redisstore.WithClock(now),
		)
	})
}

func TestStore_KeyExpiry(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	store := redisstore.New(client, redisstore.WithPrefix("ttl:"))

	now := time.Now()
	sess := &session.Session{
		ID:        "id",
		Token:     "tok",
		Data:      map[string]any{"n": 1},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Insert(ctx, sess))

	ttl, err := client.PTTL(ctx, "ttl:tok").Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Milliseconds(), ttl.Milliseconds(), float64(5*time.Second.Milliseconds()))

	_, err = store.FindAndUpdate(ctx, "tok", session.Patch{ExtendExpiry: now.Add(2 * time.Hour)})
	require.NoError(t, err)

	ttl, err = client.PTTL(ctx, "ttl:tok").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 90*time.Minute)

	got, err := store.FindOne(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.Data["n"])
}

func TestStore_ShortLivedKeyIsPurged(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	store := redisstore.New(client, redisstore.WithPrefix("purge:"))

	now := time.Now()
	require.NoError(t, store.Insert(ctx, &session.Session{
		ID: "id", Token: "tok", Data: map[string]any{},
		CreatedAt: now, ExpiresAt: now.Add(200 * time.Millisecond),
	}))

	assert.Eventually(t, func() bool {
		n, err := client.Exists(ctx, "purge:tok").Result()
		return err == nil && n == 0
	}, 5*time.Second, 50*time.Millisecond)
}
