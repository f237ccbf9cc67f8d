// Package refresh implements the forecast/alerts reconciliation pipeline: it
// combines the coordinate debouncer, the weather gateway, and the alert
// notification dispatcher into the refresh protocol with required-vs-best-
// effort fetch semantics.
package refresh

import (
	"math"

	"skycast/internal/types"
)

// DefaultDebounceDegrees is the per-axis coordinate delta below which a new
// fix is not materially different from the last one used. 0.01 degrees is
// roughly 1.1 km at the equator. This is an intentional cheap approximation;
// no geodesic distance is computed.
const DefaultDebounceDegrees = 0.01

// Debouncer decides whether a new coordinate fix warrants a re-fetch. The
// periods track and the alerts track each keep their own "last used"
// coordinate because the two fetches succeed and fail independently.
type Debouncer struct {
	// Threshold is the per-axis delta in degrees. Zero or negative falls
	// back to DefaultDebounceDegrees.
	Threshold float64
}

func (d Debouncer) threshold() float64 {
	if d.Threshold <= 0 {
		return DefaultDebounceDegrees
	}
	return d.Threshold
}

// ShouldSkip reports whether the candidate fix is close enough to the last
// used coordinate to skip a re-fetch. It returns true only when a last-used
// coordinate exists, both axis deltas are under the threshold, and data from
// a prior successful fetch is present.
func (d Debouncer) ShouldSkip(lastUsed *types.Coordinate, candidate types.Coordinate, haveData bool) bool {
	if lastUsed == nil || !haveData {
		return false
	}
	return math.Abs(lastUsed.Lat-candidate.Lat) < d.threshold() &&
		math.Abs(lastUsed.Lon-candidate.Lon) < d.threshold()
}
