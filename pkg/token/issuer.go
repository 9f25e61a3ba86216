package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ClaimID is the unique token identifier.
	ClaimID = "jti"
	// ClaimIssuedAt is the issuance timestamp in Unix seconds.
	ClaimIssuedAt = "iat"
	// ClaimIssuer names the issuer when WithIssuer is set.
	ClaimIssuer = "iss"
	// ClaimPayload holds payloads that are not JSON objects.
	ClaimPayload = "payload"
)

// Issuer signs session tokens with HMAC-SHA256.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithIssuer sets the "iss" claim on every token.
func WithIssuer(name string) Option {
	return func(i *Issuer) {
		i.issuer = name
	}
}

// WithClock overrides the time source used for "iat".
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates an issuer signing with secret.
func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	i := &Issuer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// Issue signs a new token embedding payload.
// The generated "jti" always overrides one supplied in the payload.
func (i *Issuer) Issue(payload any) (string, error) {
	claims, err := toClaims(payload)
	if err != nil {
		return "", err
	}

	claims[ClaimID] = uuid.NewString()
	claims[ClaimIssuedAt] = i.now().Unix()
	if i.issuer != "" {
		claims[ClaimIssuer] = i.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Inspect decodes the claims of a token without verifying its signature.
// Use it only for display or routing, never for authorization.
func Inspect(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return map[string]any(claims), nil
}

func toClaims(payload any) (jwt.MapClaims, error) {
	switch p := payload.(type) {
	case nil:
		return jwt.MapClaims{}, nil
	case map[string]any:
		return jwt.MapClaims(maps.Clone(p)), nil
	case jwt.MapClaims:
		return maps.Clone(p), nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Join(ErrUnexpectedPayload, err)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return jwt.MapClaims(obj), nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Join(ErrUnexpectedPayload, err)
	}
	return jwt.MapClaims{ClaimPayload: v}, nil
}
