// Package pgstore implements session.Store on PostgreSQL.
//
// Sessions live in the sessions table created by the embedded goose
// migrations; apply them with pg.Migrate(ctx, pool, pgstore.Migrations(), ...).
// Postgres has no TTL indexes, so every read filters on expires_at and an
// optional background sweep deletes expired rows.
//
// FindAndUpdate locks the row with SELECT ... FOR UPDATE, applies the patch
// and writes it back in one transaction. Concurrent renewals of the same
// token therefore serialize and the stored expiry only moves forward.
package pgstore
