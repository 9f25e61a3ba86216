// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config and pings it, retrying while
// the server comes up. Migrate applies goose migrations read from an fs.FS,
// usually an embed.FS owned by the package that defines the schema.
// Healthcheck returns a probe for readiness endpoints.
//
//	pool, err := pg.Connect(ctx, pg.DefaultConfig(os.Getenv("PG_CONN_URL")))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations(), cfg, slog.Default()); err != nil {
//		return err
//	}
//
// IsNotFoundError and IsDuplicateKeyError classify errors returned by pgx.
package pg
