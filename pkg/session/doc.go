// Package session issues, validates, mutates and revokes opaque bearer
// session tokens backed by a store that expires records on its own.
//
// # Architecture
//
// A Service implements the public contract: Create, Get, Edit, Destroy and
// the Check middleware. It relies on a TokenIssuer to mint unguessable
// tokens and on a Store to persist records. The service holds no session
// state between calls; every operation is a single store call, and
// concurrent renewals of one token are serialized by the store's atomic
// update primitive.
//
//	┌────────┐  Bearer  ┌─────────────┐
//	│ Client │ ───────► │    Check    │──► next handler (Principal in ctx)
//	└────────┘          └─────────────┘
//	                           │ FindAndUpdate(expiresAt = max(cur, now+ttl))
//	                           ▼
//	┌─────────┐  Insert / FindOne / FindAndUpdate / DeleteOne  ┌────────┐
//	│ Service │ ──────────────────────────────────────────────►│ Store  │ (memory, mongo, redis)
//	└─────────┘                                                └────────┘
//
// # Usage
//
//	issuer, _ := token.NewIssuer(cfg.Secret)
//	svc, _ := session.New(store, issuer, session.WithTTL(time.Hour))
//
//	// login
//	sess, err := svc.Create(ctx, map[string]any{"user_id": id}, map[string]any{"sub": id},
//	    session.WithUserAgent(r.UserAgent()),
//	)
//
//	// protect routes
//	r.With(svc.Check).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    ...
//	})
//
//	// store auxiliary state, logout
//	_, _ = svc.Edit(ctx, sess.Token, "data.role", "admin")
//	_ = svc.Destroy(ctx, sess.Token)
//
// # Expiry
//
// Sessions expire at ComputeExpiry(ttl, now). Each successful Authenticate
// slides the expiry forward; it never shortens an expiry set explicitly at
// creation. Stores hide expired records immediately and purge them lazily.
//
// # Error Handling
//
// Lookups of unknown or expired tokens return ErrSessionNotFound.
// Store failures are joined with ErrSaveFailed, ErrGetFailed, ErrEditFailed
// or ErrDeleteFailed so both the kind and the cause match errors.Is.
// Authentication failures are ErrUnauthenticated (401) or ErrInternalAuth (500).
package session
