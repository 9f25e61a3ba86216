package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// TokenIssuer generates a new unguessable token for a session.
// The payload is embedded for inspection only; tokens are never verified here.
type TokenIssuer interface {
	Issue(payload any) (string, error)
}

// Service implements the session lifecycle and bearer authentication.
// It is safe for concurrent use and keeps no session state between calls.
type Service struct {
	store        Store
	issuer       TokenIssuer
	ttl          time.Duration
	now          func() time.Time
	logger       *slog.Logger
	debug        bool
	extractor    TokenExtractorFunc
	errorHandler ErrorHandlerFunc
	realm        string
}

// New creates a session service over the given store and issuer
func New(store Store, issuer TokenIssuer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if issuer == nil {
		return nil, ErrNoIssuer
	}

	s := &Service{
		store:     store,
		issuer:    issuer,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
		extractor: BearerTokenExtractor,
		realm:     DefaultRealm,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.errorHandler == nil {
		s.errorHandler = s.defaultErrorHandler
	}

	s.logger = s.logger.With(logger.Component("session"))

	return s, nil
}

// TTL returns the effective time-to-live
func (s *Service) TTL() time.Duration {
	if s.ttl <= 0 {
		return DefaultTTL
	}
	return s.ttl
}

// Create issues a token and persists a new session holding data.
// The payload is embedded into the token for later inspection.
func (s *Service) Create(ctx context.Context, data map[string]any, payload any, opts ...CreateOption) (*Session, error) {
	if data == nil {
		return nil, errors.Join(ErrSaveFailed, ErrMissingData)
	}

	var p createParams
	for _, opt := range opts {
		opt(&p)
	}

	now := s.now()
	expiresAt := p.expiresAt
	if expiresAt.IsZero() {
		expiresAt = ComputeExpiry(s.ttl, now)
	}

	token, err := s.issuer.Issue(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue session token", logger.Error(err))
		return nil, errors.Join(ErrSaveFailed, err)
	}

	session := &Session{
		ID:        ulid.Make().String(),
		Token:     token,
		UserAgent: p.userAgent,
		Data:      cloneMap(data),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.store.Insert(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to save session",
			logger.Error(err),
			logger.SessionID(session.ID),
		)
		return nil, errors.Join(ErrSaveFailed, err)
	}

	return session, nil
}

// Get looks up a live session. Unknown and expired tokens yield ErrSessionNotFound.
func (s *Service) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.store.FindOne(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get session",
			logger.Error(err),
			logger.TokenFingerprint(token),
		)
		return nil, errors.Join(ErrGetFailed, err)
	}

	return session, nil
}

// Edit atomically sets a single field inside the session data and returns
// the updated session.
func (s *Service) Edit(ctx context.Context, token, path string, value any) (*Session, error) {
	fp, err := ParseFieldPath(path)
	if err != nil {
		return nil, err
	}
	if fp.IsRoot() {
		if m, ok := value.(map[string]any); !ok || m == nil {
			return nil, errors.Join(ErrInvalidFieldPath, ErrMissingData)
		}
	}
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.store.FindAndUpdate(ctx, token, Patch{
		Set: []FieldUpdate{{Path: fp, Value: value}},
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.ErrorContext(ctx, "failed to edit session",
			logger.Error(err),
			logger.TokenFingerprint(token),
			slog.String("path", fp.String()),
		)
		return nil, errors.Join(ErrEditFailed, err)
	}

	return session, nil
}

// Destroy deletes the session. Destroying an unknown token succeeds.
func (s *Service) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.store.DeleteOne(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session",
			logger.Error(err),
			logger.TokenFingerprint(token),
		)
		return errors.Join(ErrDeleteFailed, err)
	}

	return nil
}
