// Package mongostore implements session.Store on MongoDB.
//
// Each session is one document:
//
//	{_id, token, userAgent, data, createdAt, expiresAt}
//
// EnsureIndexes creates a unique index on token and a TTL index on
// expiresAt with expireAfterSeconds 0, so the server purges documents once
// they expire. The TTL monitor runs about once a minute, so every read also
// filters on expiresAt > now and an expired session is never returned.
//
// Renewals use $max on expiresAt inside findOneAndUpdate, so concurrent
// authentications can only move the expiry forward.
//
// # Usage
//
//	client, err := mongo.New(ctx, mongo.DefaultConfig(url))
//	if err != nil {
//	    return err
//	}
//	store := mongostore.New(client.Database("sessions"), "sessions")
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
package mongostore
