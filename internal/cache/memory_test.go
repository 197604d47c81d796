package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetCopies(t *testing.T) {
	m := NewMemory()
	value := []string{"a", "b"}
	require.NoError(t, m.Set("k", value, time.Minute))
	value[0] = "changed"

	var out []string
	found, err := m.Get("k", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestMemory_Expiration(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set("k", 1, time.Minute))

	var out int
	found, err := m.Get("k", &out)
	require.NoError(t, err)
	assert.True(t, found)

	now = now.Add(time.Minute)
	found, err = m.Get("k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_NoExpiration(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("k", "v", 0))
	m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	var out string
	found, err := m.Get("k", &out)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemory_InvalidateAndMarshalError(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("k", "v", time.Minute))
	require.NoError(t, m.Invalidate("k"))
	require.NoError(t, m.Invalidate("k"))

	var out string
	found, err := m.Get("k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Error(t, m.Set("bad", make(chan int), time.Minute))
}

func TestEntry_Stale(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("snapshot", fetched)

	assert.False(t, e.Stale(fetched, 5*time.Minute))
	assert.False(t, e.Stale(fetched.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, e.Stale(fetched.Add(5*time.Minute), 5*time.Minute))
	assert.True(t, e.Stale(fetched, 0))
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)
