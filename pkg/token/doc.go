// Package token issues signed bearer tokens for sessions.
//
// Tokens are HS256 JWTs. The caller's payload becomes the claim set, and
// every token also carries a random "jti" and an "iat" timestamp, so two
// tokens issued for the same payload in the same second still differ.
// Payloads that do not encode to a JSON object are placed under the
// "payload" claim.
//
// Sessions never rely on the signature for validity: the session store is
// the source of truth. The signature lets other services check that a token
// came from this issuer, and Inspect lets callers read the embedded claims
// without the secret. Checking the signature is left to those services.
//
// # Usage
//
//	issuer, err := token.NewIssuer(os.Getenv("SESSION_SECRET"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tok, err := issuer.Issue(map[string]any{"sub": "42"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	claims, err := token.Inspect(tok)
//
// Returns ErrMissingSecret when no secret is configured and ErrInvalidToken
// for malformed tokens.
package token
