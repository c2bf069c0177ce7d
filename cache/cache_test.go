package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("a", 42)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCache_MissReturnsFalse(t *testing.T) {
	c := New(10, time.Minute)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_EvictsOverCapacity(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	assert.LessOrEqual(t, c.Len(), 2)
}

func TestFingerprint_StableForSameInput(t *testing.T) {
	f1 := Fingerprint([]string{"C", "G", "Am", "F"}, "C major", "intermediate", 0.5, 2)
	f2 := Fingerprint([]string{"C", "G", "Am", "F"}, "C major", "intermediate", 0.5, 2)
	assert.Equal(t, f1, f2)
}

func TestFingerprint_DiffersOnParentKey(t *testing.T) {
	f1 := Fingerprint([]string{"C", "G", "Am", "F"}, "C major", "intermediate", 0.5, 2)
	f2 := Fingerprint([]string{"C", "G", "Am", "F"}, "", "intermediate", 0.5, 2)
	assert.NotEqual(t, f1, f2)
}
