package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultCollection is used when no collection name is configured.
const DefaultCollection = "sessions"

// codePathNotViable is returned by the server when $set walks through a scalar.
const codePathNotViable = 28

// Store keeps sessions in a MongoDB collection. Expired documents are
// filtered out of every read and purged by a TTL index on expiresAt.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to filter expired documents.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a store over the named collection of db.
func New(db *mongo.Database, collection string, opts ...Option) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	s := &Store{
		coll: db.Collection(collection),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the unique token index and the TTL index.
// It is idempotent and should run once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

// Insert stores a new session. A live session with the same token yields
// session.ErrDuplicateToken; an expired one awaiting purge is replaced.
func (s *Store) Insert(ctx context.Context, sess *session.Session) error {
	_, err := s.coll.InsertOne(ctx, toRecord(sess))
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	res, delErr := s.coll.DeleteOne(ctx, bson.D{
		{Key: "token", Value: sess.Token},
		{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: s.now()}}},
	})
	if delErr != nil {
		return delErr
	}
	if res.DeletedCount == 0 {
		return errors.Join(session.ErrDuplicateToken, err)
	}

	if _, err := s.coll.InsertOne(ctx, toRecord(sess)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(session.ErrDuplicateToken, err)
		}
		return err
	}
	return nil
}

// FindOne returns the live session for token.
func (s *Store) FindOne(ctx context.Context, token string) (*session.Session, error) {
	var rec record
	if err := s.coll.FindOne(ctx, s.liveFilter(token)).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	return rec.toSession(), nil
}

// FindAndUpdate applies patch to the live session in a single
// findOneAndUpdate and returns the document after the update.
func (s *Store) FindAndUpdate(ctx context.Context, token string, patch session.Patch) (*session.Session, error) {
	if patch.IsEmpty() {
		return s.FindOne(ctx, token)
	}

	var rec record
	err := s.coll.FindOneAndUpdate(ctx,
		s.liveFilter(token),
		buildUpdate(patch),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		var se mongo.ServerError
		if errors.As(err, &se) && se.HasErrorCode(codePathNotViable) {
			return nil, errors.Join(session.ErrInvalidFieldPath, err)
		}
		return nil, err
	}
	return rec.toSession(), nil
}

// DeleteOne removes the session for token. Missing tokens are not an error.
func (s *Store) DeleteOne(ctx context.Context, token string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "token", Value: token}})
	return err
}

func (s *Store) liveFilter(token string) bson.D {
	return bson.D{
		{Key: "token", Value: token},
		{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: s.now()}}},
	}
}

func buildUpdate(patch session.Patch) bson.D {
	var update bson.D

	if len(patch.Set) > 0 {
		set := make(bson.D, 0, len(patch.Set))
		for _, f := range patch.Set {
			set = append(set, bson.E{Key: f.Path.String(), Value: f.Value})
		}
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	if !patch.ExtendExpiry.IsZero() {
		update = append(update, bson.E{Key: "$max", Value: bson.D{
			{Key: "expiresAt", Value: patch.ExtendExpiry},
		}})
	}

	return update
}
