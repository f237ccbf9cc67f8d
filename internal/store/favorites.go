package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skycast/internal/types"
)

// favoritesKey is the settings key holding the JSON-encoded favorites array.
const favoritesKey = "locations.favorites"

// Favorites persists the user's saved locations as one JSON array under a
// single settings key. An absent key means no favorites.
type Favorites struct {
	store *Store
	clock types.Clock
}

// NewFavorites creates a Favorites repository over the given store.
func NewFavorites(store *Store, clock types.Clock) *Favorites {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Favorites{store: store, clock: clock}
}

// List returns all favorites in insertion order.
func (f *Favorites) List(ctx context.Context) ([]types.Favorite, error) {
	var favorites []types.Favorite
	if _, err := f.store.GetJSON(ctx, favoritesKey, &favorites); err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return favorites, nil
}

// Add appends a new favorite and returns it with its generated id.
func (f *Favorites) Add(ctx context.Context, label string, coord types.Coordinate) (types.Favorite, error) {
	favorites, err := f.List(ctx)
	if err != nil {
		return types.Favorite{}, err
	}

	favorite := types.Favorite{
		ID:         uuid.NewString(),
		Label:      label,
		Coordinate: coord,
		CreatedAt:  f.clock.Now(),
	}
	favorites = append(favorites, favorite)

	if err := f.store.SetJSON(ctx, favoritesKey, favorites); err != nil {
		return types.Favorite{}, fmt.Errorf("saving favorites: %w", err)
	}
	return favorite, nil
}

// Remove deletes the favorite with the given id. Removing an unknown id is a
// no-op.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	favorites, err := f.List(ctx)
	if err != nil {
		return err
	}

	kept := favorites[:0]
	for _, fav := range favorites {
		if fav.ID != id {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(favorites) {
		return nil
	}

	if err := f.store.SetJSON(ctx, favoritesKey, kept); err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	return nil
}
