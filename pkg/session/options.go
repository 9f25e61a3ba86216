package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Service
type Option func(*Service)

// WithTTL sets the time-to-live applied at creation and on every renewal.
// Non-positive values fall back to DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for store failures and debug output
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebug enables logging of every authenticated session at debug level.
// Tokens are fingerprinted and session data is never logged.
func WithDebug(enabled bool) Option {
	return func(s *Service) {
		s.debug = enabled
	}
}

// WithTokenExtractor sets how Check reads the bearer credential
func WithTokenExtractor(fn TokenExtractorFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.extractor = fn
		}
	}
}

// WithErrorHandler sets how Check responds when authentication fails
func WithErrorHandler(fn ErrorHandlerFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.errorHandler = fn
		}
	}
}

// WithRealm sets the realm advertised in WWW-Authenticate challenges
func WithRealm(realm string) Option {
	return func(s *Service) {
		if realm != "" {
			s.realm = realm
		}
	}
}

// CreateOption customizes a single Create call
type CreateOption func(*createParams)

type createParams struct {
	expiresAt time.Time
	userAgent string
}

// WithExpiresAt sets an explicit expiry instead of the configured TTL
func WithExpiresAt(t time.Time) CreateOption {
	return func(p *createParams) {
		p.expiresAt = t
	}
}

// WithUserAgent records the client user agent on the new session
func WithUserAgent(ua string) CreateOption {
	return func(p *createParams) {
		p.userAgent = ua
	}
}
