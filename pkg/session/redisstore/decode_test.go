package redisstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestDecodeSession_PreservesNumbers(t *testing.T) {
	t.Parallel()

	in := &session.Session{
		ID:    "01J0000000000000000000000",
		Token: "tok",
		Data: map[string]any{
			"user_id": int64(9007199254740993),
			"count":   7,
			"ratio":   1.5,
			"tags":    []any{1, "two", map[string]any{"n": int64(-3)}},
		},
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := decodeSession(raw)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), out.Data["user_id"])
	assert.Equal(t, json.Number("7"), out.Data["count"])
	assert.Equal(t, json.Number("1.5"), out.Data["ratio"])

	// Renewal rewrites the record, so encoding the decoded value must
	// reproduce the stored bytes.
	again, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
	assert.Contains(t, string(again), `"user_id":9007199254740993`)
}

func TestDecodeSession_NullData(t *testing.T) {
	t.Parallel()

	out, err := decodeSession([]byte(`{"token":"tok","data":null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out.Data)

	_, err = decodeSession([]byte(`{"token":`))
	assert.Error(t, err)
}
