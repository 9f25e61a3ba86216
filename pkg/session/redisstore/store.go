package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	// DefaultPrefix namespaces session keys.
	DefaultPrefix = "session:"
	// DefaultMaxRetries bounds optimistic transaction retries per operation.
	DefaultMaxRetries = 50
)

// ErrConflict is returned when a write keeps losing optimistic-lock races.
var ErrConflict = errors.New("redisstore: too many concurrent updates")

// Store keeps each session as a JSON value under prefix+token. The key
// carries a PXAT expiry equal to the session's expiresAt so Redis purges it;
// reads also check expiresAt so an expired session is never returned.
type Store struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithMaxRetries sets how often a conflicting transaction is retried.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithClock overrides the time source used to filter expired sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a store backed by client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:     client,
		prefix:     DefaultPrefix,
		maxRetries: DefaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert stores a new session unless a live one already holds the token.
func (s *Store) Insert(ctx context.Context, sess *session.Session) error {
	key := s.key(sess.Token)
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redisstore: encode session: %w", err)
	}

	return s.transact(ctx, key, func(tx *redis.Tx) error {
		existing, err := s.load(ctx, tx, key)
		if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			return err
		}
		if existing != nil {
			return session.ErrDuplicateToken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.PExpireAt(ctx, key, sess.ExpiresAt)
			return nil
		})
		return err
	})
}

// FindOne returns the live session for token.
func (s *Store) FindOne(ctx context.Context, token string) (*session.Session, error) {
	return s.load(ctx, s.client, s.key(token))
}

// FindAndUpdate applies patch under WATCH/MULTI and returns the result.
// Concurrent writers cause a retry, so renewals never lose to each other.
func (s *Store) FindAndUpdate(ctx context.Context, token string, patch session.Patch) (*session.Session, error) {
	if patch.IsEmpty() {
		return s.FindOne(ctx, token)
	}

	key := s.key(token)
	var updated *session.Session

	err := s.transact(ctx, key, func(tx *redis.Tx) error {
		sess, err := s.load(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := patch.Apply(sess); err != nil {
			return err
		}

		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("redisstore: encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.PExpireAt(ctx, key, sess.ExpiresAt)
			return nil
		})
		if err != nil {
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
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *Store) key(token string) string {
	return s.prefix + token
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, c getter, key string) (*session.Session, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}

	sess, err := decodeSession(raw)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired(s.now()) {
		return nil, session.ErrSessionNotFound
	}
	return sess, nil
}

// decodeSession keeps numbers in data as json.Number, so values written
// back by FindAndUpdate are byte-for-byte what the caller stored.
func decodeSession(raw []byte) (*session.Session, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var sess session.Session
	if err := dec.Decode(&sess); err != nil {
		return nil, fmt.Errorf("redisstore: decode session: %w", err)
	}
	if sess.Data == nil {
		sess.Data = map[string]any{}
	}
	return &sess, nil
}

// transact runs fn in an optimistic transaction on key, retrying when
// another client modifies the key between WATCH and EXEC.
func (s *Store) transact(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for range s.maxRetries {
		err := s.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}
