package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/types"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestFavorites_AddListRemove(t *testing.T) {
	s := newTestStore(t)
	clock := fixedClock{now: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}
	favorites := NewFavorites(s, clock)
	ctx := context.Background()

	list, err := favorites.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "absent key means no favorites")

	home, err := favorites.Add(ctx, "Home", types.Coordinate{Lat: 39.90, Lon: -75.17})
	require.NoError(t, err)
	assert.NotEmpty(t, home.ID)
	assert.Equal(t, clock.now, home.CreatedAt)

	shore, err := favorites.Add(ctx, "Shore House", types.Coordinate{Lat: 39.36, Lon: -74.42})
	require.NoError(t, err)
	assert.NotEqual(t, home.ID, shore.ID)

	list, err = favorites.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Home", list[0].Label)
	assert.Equal(t, "Shore House", list[1].Label)

	require.NoError(t, favorites.Remove(ctx, home.ID))
	list, err = favorites.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shore.ID, list[0].ID)

	// Unknown id is a no-op.
	require.NoError(t, favorites.Remove(ctx, "nope"))
}

func TestFavorites_PersistAcrossRepositories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := NewFavorites(s, nil)
	_, err := first.Add(ctx, "Cabin", types.Coordinate{Lat: 41.0, Lon: -75.5})
	require.NoError(t, err)

	second := NewFavorites(s, nil)
	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cabin", list[0].Label)
}
