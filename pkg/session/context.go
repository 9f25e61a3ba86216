package session

import "context"

type principalContextKey struct{}

// WithPrincipal adds an authenticated principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal from the context
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok && p != nil
}

// FromContext retrieves the authenticated session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Session == nil {
		return nil, false
	}
	return p.Session, true
}

// MustFromContext retrieves the authenticated session or panics.
// Only use it behind Check.
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}
