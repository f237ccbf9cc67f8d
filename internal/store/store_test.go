package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_StringRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetString(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "absent key must read as not present")

	require.NoError(t, s.SetString(ctx, "station", "KPHL"))
	value, ok, err := s.GetString(ctx, "station")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "KPHL", value)

	// Overwrite replaces.
	require.NoError(t, s.SetString(ctx, "station", "KACY"))
	value, _, err = s.GetString(ctx, "station")
	require.NoError(t, err)
	assert.Equal(t, "KACY", value)
}

func TestStore_Bool(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enabled, err := s.GetBool(ctx, "alerts.enabled", true)
	require.NoError(t, err)
	assert.True(t, enabled, "absent key falls back")

	require.NoError(t, s.SetBool(ctx, "alerts.enabled", false))
	enabled, err = s.GetBool(ctx, "alerts.enabled", true)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetString(ctx, "key", "value"))
	require.NoError(t, s.Delete(ctx, "key"))

	_, ok, err := s.GetString(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "never-existed"))
}

func TestStore_StringSlice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	values, err := s.GetStringSlice(ctx, "ids")
	require.NoError(t, err)
	assert.Empty(t, values, "absent key reads as empty")

	require.NoError(t, s.SetStringSlice(ctx, "ids", []string{"a", "b", "c"}))
	values, err = s.GetStringSlice(ctx, "ids")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values)

	require.NoError(t, s.SetStringSlice(ctx, "ids", nil))
	values, err = s.GetStringSlice(ctx, "ids")
	require.NoError(t, err)
	assert.Empty(t, values)
}
