package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type record struct {
	ID        string         `bson:"_id"`
	Token     string         `bson:"token"`
	UserAgent string         `bson:"userAgent,omitempty"`
	Data      map[string]any `bson:"data"`
	CreatedAt time.Time      `bson:"createdAt"`
	ExpiresAt time.Time      `bson:"expiresAt"`
}

func toRecord(s *session.Session) record {
	data := s.Data
	if data == nil {
		data = map[string]any{}
	}
	return record{
		ID:        s.ID,
		Token:     s.Token,
		UserAgent: s.UserAgent,
		Data:      data,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (r record) toSession() *session.Session {
	data, _ := normalize(r.Data).(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return &session.Session{
		ID:        r.ID,
		Token:     r.Token,
		UserAgent: r.UserAgent,
		Data:      data,
		CreatedAt: r.CreatedAt.UTC(),
		ExpiresAt: r.ExpiresAt.UTC(),
	}
}

// normalize turns driver-specific container types into plain maps and
// slices so session data looks the same regardless of backend.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case bson.M:
		return normalize(map[string]any(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case bson.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
