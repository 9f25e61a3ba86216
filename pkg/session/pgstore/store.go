package pgstore

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations for the sessions table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	columns       = `id, token, user_agent, data, created_at, expires_at`
	selectColumns = `SELECT ` + columns + ` FROM sessions`
)

// Store persists sessions in the sessions table.
type Store struct {
	pool     *pgxpool.Pool
	now      func() time.Time
	log      *slog.Logger
	interval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to filter expired sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSweepInterval starts a background job deleting expired rows.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		s.interval = d
	}
}

// WithLogger sets the logger used by the sweep job.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a store on pool. The schema must already be migrated.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool: pool,
		now:  time.Now,
		log:  slog.New(slog.DiscardHandler),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.interval > 0 {
		s.wg.Add(1)
		go s.sweepLoop()
	}

	return s
}

// Insert stores a new session. An expired row still holding the token is
// replaced; a live one yields session.ErrDuplicateToken.
func (s *Store) Insert(ctx context.Context, sess *session.Session) error {
	data := sess.Data
	if data == nil {
		data = map[string]any{}
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, user_agent, data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token) DO UPDATE SET
			id = EXCLUDED.id,
			user_agent = EXCLUDED.user_agent,
			data = EXCLUDED.data,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE sessions.expires_at <= $7
	`, sess.ID, sess.Token, sess.UserAgent, data, sess.CreatedAt, sess.ExpiresAt, s.now())
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(session.ErrDuplicateToken, err)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrDuplicateToken
	}
	return nil
}

// FindOne returns the live session for token.
func (s *Store) FindOne(ctx context.Context, token string) (*session.Session, error) {
	return scanSession(s.pool.QueryRow(ctx,
		selectColumns+` WHERE token = $1 AND expires_at > $2`,
		token, s.now(),
	))
}

// FindAndUpdate applies patch to the live session for token and returns the
// updated record. A renewal is a single UPDATE that leaves data untouched;
// field writes run inside a transaction holding the row lock.
func (s *Store) FindAndUpdate(ctx context.Context, token string, patch session.Patch) (*session.Session, error) {
	if patch.IsEmpty() {
		return s.FindOne(ctx, token)
	}
	if len(patch.Set) == 0 {
		return scanSession(s.pool.QueryRow(ctx, `
			UPDATE sessions SET expires_at = GREATEST(expires_at, $2)
			WHERE token = $1 AND expires_at > $3
			RETURNING `+columns,
			token, patch.ExtendExpiry, s.now(),
		))
	}

	var updated *session.Session
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		sess, err := scanSession(tx.QueryRow(ctx,
			selectColumns+` WHERE token = $1 AND expires_at > $2 FOR UPDATE`,
			token, s.now(),
		))
		if err != nil {
			return err
		}
		if err := patch.Apply(sess); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE sessions SET data = $2, expires_at = $3 WHERE token = $1`,
			token, sess.Data, sess.ExpiresAt,
		); err != nil {
			return err
		}

		updated = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteOne removes the session for token. Missing tokens are not an error.
func (s *Store) DeleteOne(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpired removes every expired row and reports how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close stops the sweep job. It does not close the pool.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

func (s *Store) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			n, err := s.DeleteExpired(ctx)
			cancel()
			if err != nil {
				s.log.Error("failed to delete expired sessions", logger.Error(err))
				continue
			}
			if n > 0 {
				s.log.Debug("deleted expired sessions", slog.Int64("count", n))
			}
		case <-s.done:
			return
		}
	}
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		sess session.Session
		raw  []byte
	)
	err := row.Scan(&sess.ID, &sess.Token, &sess.UserAgent, &raw, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}

	sess.Data, err = decodeData(raw)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// decodeData keeps jsonb numbers as json.Number so integers beyond 2^53
// survive a read followed by a write.
func decodeData(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("pgstore: decode data: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
