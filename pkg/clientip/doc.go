// Package clientip resolves the originating client address of an HTTP
// request behind reverse proxies.
//
// A Resolver checks the trusted proxy headers in order, taking the first
// valid address (X-Forwarded-For contributes its leftmost valid entry), and
// falls back to the TCP peer address. Addresses are normalized with
// net/netip, so IPv4-mapped IPv6 addresses are reported in IPv4 form.
//
//	ips := clientip.New()
//	r.Use(ips.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//
// Only trust headers your proxy overwrites; otherwise clients can spoof them.
// Use WithHeaders() with no arguments when the server is exposed directly.
package clientip
