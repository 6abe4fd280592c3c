package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	it, err := r.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, it.State)
	assert.NotNil(t, it.Payload)

	require.NoError(t, r.Set(ctx, 5, StateGenHours, Payload{"subject_id": int64(3), "topics": "a, b"}))
	it, err = r.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateGenHours, it.State)

	id, ok := GetInt64(it.Payload, "subject_id")
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.IsType(t, float64(0), it.Payload["subject_id"], "payload round-trips through JSON")

	require.NoError(t, r.Reset(ctx, 5))
	it, _ = r.Get(ctx, 5)
	assert.Equal(t, StateIdle, it.State)
}

func TestPayloadHelpers(t *testing.T) {
	p := Payload{"s": "x", "n": float64(7), "ns": "12", "bad": "z", "f": 1.5}

	s, ok := GetString(p, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = GetString(p, "n")
	assert.False(t, ok)

	n, ok := GetInt64(p, "ns")
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
	_, ok = GetInt64(p, "bad")
	assert.False(t, ok)
	_, ok = GetInt64(nil, "n")
	assert.False(t, ok)

	f, ok := GetFloat(p, "f")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	c := p.Clone()
	c["s"] = "y"
	assert.Equal(t, "x", p["s"])
}
