package refresh

import (
	"time"

	"skycast/internal/types"
)

// State is a snapshot of the reconciler's published state. Snapshots are
// value copies: mutating a snapshot never affects the reconciler.
type State struct {
	// PeriodsCoord is the coordinate of the last successful periods fetch.
	PeriodsCoord *types.Coordinate
	// AlertsCoord is the coordinate of the last successful alerts fetch.
	// Tracked independently of PeriodsCoord: the two fetches succeed and
	// fail on their own.
	AlertsCoord *types.Coordinate

	Periods []types.ForecastPeriod
	Alerts  []types.AlertFeature

	// Loading is true only while a refresh call is in flight.
	Loading bool

	// ErrorMessage is the user-facing message for the periods track. Empty
	// means no error. Alerts-track failures never populate it.
	ErrorMessage string

	// LastRefreshed is when the periods list was last successfully
	// replaced. Zero before the first successful fetch.
	LastRefreshed time.Time
}

// clone deep-copies the snapshot so subscribers and callers cannot alias the
// reconciler's internal slices.
func (s State) clone() State {
	out := s
	if s.PeriodsCoord != nil {
		c := *s.PeriodsCoord
		out.PeriodsCoord = &c
	}
	if s.AlertsCoord != nil {
		c := *s.AlertsCoord
		out.AlertsCoord = &c
	}
	if s.Periods != nil {
		out.Periods = make([]types.ForecastPeriod, len(s.Periods))
		copy(out.Periods, s.Periods)
	}
	if s.Alerts != nil {
		out.Alerts = make([]types.AlertFeature, len(s.Alerts))
		copy(out.Alerts, s.Alerts)
	}
	return out
}

// Subscriber receives state snapshots after each published change.
type Subscriber func(State)
