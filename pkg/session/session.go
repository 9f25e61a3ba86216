package session

import (
	"maps"
	"time"
)

// Session is the persisted record behind a bearer token.
// Field names in the json/bson tags are the on-disk contract.
type Session struct {
	ID        string         `json:"id" bson:"_id"`
	Token     string         `json:"token" bson:"token"`
	UserAgent string         `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	Data      map[string]any `json:"data" bson:"data"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt" bson:"expiresAt"`
}

// IsExpired reports whether the session has passed its expiry at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// Get retrieves a top-level value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a top-level string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// Clone returns a deep copy of the session so callers never share
// mutable data with a store.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = cloneMap(s.Data)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
