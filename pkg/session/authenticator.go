package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

const (
	// ScopeAll is granted to every authenticated principal
	ScopeAll = "*"

	// DefaultRealm is advertised in WWW-Authenticate challenges
	DefaultRealm = "Users"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Session *Session
	Scopes  []string
}

// HasScope reports whether the principal holds scope.
// "*" matches everything and "admin.*" matches "admin.users".
func (p *Principal) HasScope(scope string) bool {
	if p == nil {
		return false
	}
	for _, pattern := range p.Scopes {
		if pattern == scope || pattern == ScopeAll {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, ".*"); ok && strings.HasPrefix(scope, prefix+".") {
			return true
		}
	}
	return false
}

// ErrorHandlerFunc writes the response for a failed authentication.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate validates a bearer token and slides its expiry forward in a
// single store operation. Unknown and expired tokens both yield
// ErrUnauthenticated; store failures yield ErrInternalAuth.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.store.FindAndUpdate(ctx, token, Patch{
		ExtendExpiry: ComputeExpiry(s.ttl, s.now()),
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		s.logger.ErrorContext(ctx, "failed to authenticate session",
			logger.Error(err),
			logger.TokenFingerprint(token),
		)
		return nil, errors.Join(ErrInternalAuth, err)
	}

	if s.debug {
		s.logger.DebugContext(ctx, "session authenticated",
			logger.Event("session.authenticated"),
			logger.SessionID(session.ID),
			logger.TokenFingerprint(session.Token),
			logger.UserAgent(session.UserAgent),
			slog.Time("created_at", session.CreatedAt),
			slog.Time("expires_at", session.ExpiresAt),
		)
	}

	return &Principal{Session: session, Scopes: []string{ScopeAll}}, nil
}

// Check is the request-authentication gate. On success the principal is
// attached to the request context; on failure the configured error handler
// responds and the chain stops.
func (s *Service) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := s.extractor(r)
		if err != nil {
			s.errorHandler(w, r, errors.Join(ErrUnauthenticated, err))
			return
		}

		principal, err := s.Authenticate(r.Context(), token)
		if err != nil {
			s.errorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (s *Service) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrUnauthenticated) {
		challenge := fmt.Sprintf("Bearer realm=%q", s.realm)
		if !errors.Is(err, ErrMissingToken) {
			challenge += `, error="invalid_token"`
		}
		w.Header().Set("WWW-Authenticate", challenge)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
