// Package redisstore implements session.Store on Redis.
//
// Sessions are stored as JSON under "session:<token>" with a PXAT expiry
// matching the session's expiresAt, so Redis purges them on its own.
// Updates read, patch and rewrite the value inside WATCH/MULTI/EXEC and
// retry when the key changes underneath them. This keeps renewals atomic:
// the stored expiresAt is the maximum of every concurrent renewal.
//
// # Usage
//
//	client, err := redis.Connect(ctx, redis.DefaultConfig(url))
//	if err != nil {
//	    return err
//	}
//	store := redisstore.New(client, redisstore.WithPrefix("myapp:session:"))
//
// Numbers in session data come back as float64, as with any JSON decoding.
package redisstore
