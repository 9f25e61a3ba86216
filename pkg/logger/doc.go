// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers so every component names keys the same way.
//
// New picks a JSON or text handler, applies static attributes and wraps the
// result in a ContextHandler that pulls request-scoped values (such as the
// request id) out of the context on every call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "sessiond"),
//	    logger.WithContextExtractors(requestIDFromContext),
//	)
//
//	log.ErrorContext(ctx, "failed to save session",
//	    logger.Error(err),
//	    logger.SessionID(id),
//	)
//
// Bearer tokens are credentials. Log them only through TokenFingerprint,
// which emits a short BLAKE2b digest that correlates requests without
// revealing the token.
package logger
