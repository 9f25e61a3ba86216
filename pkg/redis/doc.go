// Package redis opens go-redis clients for the session store.
//
// Connect parses a redis:// or rediss:// URL, pings the server and retries
// with a fixed interval. Healthcheck wraps a ping for readiness probes.
//
// # Usage
//
//	client, err := redis.Connect(ctx, redis.DefaultConfig("redis://localhost:6379/0"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Errors wrap ErrEmptyConnectionURL, ErrFailedToParseRedisConnString,
// ErrRedisNotReady or ErrHealthcheckFailed.
package redis
