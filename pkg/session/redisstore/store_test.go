package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
)

func TestStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: time.Second})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client)
	ctx := context.Background()

	_, err := store.FindOne(ctx, "tok")
	assert.Error(t, err)

	assert.Error(t, store.DeleteOne(ctx, "tok"))
}
