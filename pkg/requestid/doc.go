// Package requestid assigns every HTTP request an id, echoes it in the
// X-Request-ID response header and exposes it to handlers and logs.
//
// Incoming ids are reused when they are 1-128 characters of letters,
// digits, '-' or '_'; anything else is replaced with a fresh UUID so clients
// cannot inject arbitrary text into log lines.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware())
package requestid
