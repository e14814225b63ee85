package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	c := New[string, int](8, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	var buf bytes.Buffer
	require.NoError(t, c.Snapshot(&buf))

	restored := New[string, int](8, time.Hour)
	require.NoError(t, restored.LoadSnapshot(&buf))
	assert.Equal(t, 3, restored.Len())

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		v, ok := restored.Get(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, want, v)
	}
}

func TestSnapshotDropsExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[string, int](8, time.Minute)
	c.SetClock(func() time.Time { return now })
	c.Set("old", 1)

	now = now.Add(30 * time.Second)
	c.Set("fresh", 2)

	var buf bytes.Buffer
	require.NoError(t, c.Snapshot(&buf))

	restored := New[string, int](8, time.Minute)
	restored.SetClock(func() time.Time { return now.Add(45 * time.Second) })
	require.NoError(t, restored.LoadSnapshot(&buf))

	_, ok := restored.Get("old")
	assert.False(t, ok, "entry expired before load should be dropped")
	v, ok := restored.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLoadSnapshotGarbage(t *testing.T) {
	c := New[string, int](8, 0)
	err := c.LoadSnapshot(bytes.NewReader([]byte("definitely not a snapshot")))
	assert.Error(t, err)
}

func TestSnapshotPreservesRecency(t *testing.T) {
	c := New[string, int](3, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	var buf bytes.Buffer
	require.NoError(t, c.Snapshot(&buf))

	restored := New[string, int](3, 0)
	require.NoError(t, restored.LoadSnapshot(&buf))

	// "b" is the coldest entry in the restored cache.
	restored.Set("d", 4)
	_, ok := restored.Get("b")
	assert.False(t, ok)
	_, ok = restored.Get("a")
	assert.True(t, ok)
}
