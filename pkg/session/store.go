package session

import "context"

// Store defines the interface for session persistence.
//
// Implementations own expiry: records past ExpiresAt must never be returned
// and must eventually be purged without application calls.
type Store interface {
	// Insert persists a new session. Returns ErrDuplicateToken if the token is taken.
	Insert(ctx context.Context, session *Session) error

	// FindOne retrieves a live session by token or returns ErrSessionNotFound.
	FindOne(ctx context.Context, token string) (*Session, error)

	// FindAndUpdate atomically applies the patch to the live session matching
	// token and returns the updated record, or ErrSessionNotFound.
	FindAndUpdate(ctx context.Context, token string, patch Patch) (*Session, error)

	// DeleteOne removes the session by token. Missing tokens are not an error.
	DeleteOne(ctx context.Context, token string) error
}
