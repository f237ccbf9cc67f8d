package types

import (
	"fmt"
	"time"
)

// Coordinate is a geographic position in decimal degrees. Coordinates carry
// no identity; the refresh layer compares them by proximity only.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// String renders the coordinate in the "lat,lon" form used by the provider
// API paths.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Favorite is a user-saved location: a display label plus a coordinate.
// Favorites persist as a JSON-encoded array under a single settings key;
// an absent key means no favorites.
type Favorite struct {
	ID         string     `json:"id"`
	Label      string     `json:"label" validate:"required,max=100"`
	Coordinate Coordinate `json:"coordinate"`
	CreatedAt  time.Time  `json:"created_at"`
}
