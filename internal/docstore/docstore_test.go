package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("u", "moods", "1"))
	assert.ErrorIs(t, Validate("", "moods", "1"), ErrInvalidDocument)
	assert.ErrorIs(t, Validate("u", "", "1"), ErrInvalidDocument)
	assert.ErrorIs(t, Validate("u", "moods", ""), ErrInvalidDocument)
}

func TestUnixNanosRoundTrip(t *testing.T) {
	assert.Equal(t, int64(0), UnixNanos(time.Time{}))
	assert.True(t, FromUnixNanos(0).IsZero())

	ts := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)
	assert.True(t, ts.Equal(FromUnixNanos(UnixNanos(ts))))
}

func TestMergeFields(t *testing.T) {
	base := map[string]any{"completed": 1.0, "streak": 2.0, "note": "x"}
	got := MergeFields(base, map[string]any{"completed": 2.0, "note": nil, "lastCompletedAt": "t"})
	assert.Equal(t, map[string]any{"completed": 2.0, "streak": 2.0, "lastCompletedAt": "t"}, got)

	assert.Equal(t, map[string]any{"a": 1}, MergeFields(nil, map[string]any{"a": 1}))
}

func TestEncodeDecodeFields(t *testing.T) {
	b, err := EncodeFields(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	b, err = EncodeFields(map[string]any{"mood": 4, "note": "ok"})
	require.NoError(t, err)
	got, err := DecodeFields(b)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mood": 4.0, "note": "ok"}, got)

	_, err = EncodeFields(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
