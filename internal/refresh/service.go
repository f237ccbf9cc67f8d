package refresh

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"skycast/internal/types"
)

// Gateway is the subset of the weather gateway the reconciler needs.
type Gateway interface {
	FetchPeriods(ctx context.Context, coord types.Coordinate) ([]types.ForecastPeriod, error)
	FetchActiveAlerts(ctx context.Context, coord types.Coordinate) ([]types.AlertFeature, error)
}

// Notifier runs the notify-on-new-alerts step after a successful alerts
// fetch. It must be best-effort: nothing it does may affect the refresh
// cycle's outcome.
type Notifier interface {
	AlertsFetched(ctx context.Context, alerts []types.AlertFeature, locationLabel string)
}

// forecastUnavailable is the generic user-facing message for a failed
// periods fetch. Raw status codes and error chains never reach the
// user-visible state.
const forecastUnavailable = "Forecast unavailable"

// forecastUnavailableAuth is surfaced instead when the provider rejected the
// configured credentials, the one case with a human-actionable cause.
const forecastUnavailableAuth = "Forecast unavailable. Check your API key."

// Service is the refresh orchestrator. It owns the published State and
// serializes all mutations: concurrent Refresh invocations collapse through
// a single-flight group, and every state write goes through one mutex, so
// interleaved writes to periods, alerts, or the error message cannot occur.
type Service struct {
	gateway  Gateway
	notifier Notifier
	debounce Debouncer
	clock    types.Clock
	logger   types.Logger

	// locationLabel is an optional display label (e.g. a favorite's name)
	// appended to notification titles.
	locationLabel string

	flight singleflight.Group

	mu      sync.Mutex
	state   State
	subs    map[int]Subscriber
	nextSub int
}

// ServiceOption is a functional option for configuring a Service.
type ServiceOption func(*Service)

// WithLocationLabel sets the display label passed to the notifier.
func WithLocationLabel(label string) ServiceOption {
	return func(s *Service) {
		s.locationLabel = label
	}
}

// WithClock overrides the clock used for refresh stamps.
func WithClock(clock types.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithDebouncer overrides the staleness gate.
func WithDebouncer(d Debouncer) ServiceOption {
	return func(s *Service) {
		s.debounce = d
	}
}

// NewService creates a refresh Service. notifier may be nil when alert
// notifications are out of the caller's scope.
func NewService(gateway Gateway, notifier Notifier, logger types.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = types.NopLogger()
	}
	s := &Service{
		gateway:  gateway,
		notifier: notifier,
		debounce: Debouncer{},
		clock:    types.RealClock{},
		logger:   logger,
		subs:     make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current published state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a callback invoked with a snapshot after every
// published state change. The returned function unsubscribes.
func (s *Service) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// publish snapshots the state and fans it out to subscribers outside the
// lock.
func (s *Service) publish() {
	s.mu.Lock()
	snapshot := s.state.clone()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Refresh runs one full refresh cycle against the coordinate.
//
// The periods fetch is required: on failure the cycle sets a user-facing
// error message and stops without attempting alerts, so an alerts success
// can never race the error message. The alerts fetch is best-effort: its
// failure retains the previous alerts list and never touches the error
// message. A caller-initiated abort on either fetch leaves all prior state
// untouched and sets no error.
//
// The loading flag is raised for the duration of the cycle and is reset on
// every exit path. Concurrent Refresh calls collapse into one in-flight
// cycle.
func (s *Service) Refresh(ctx context.Context, coord types.Coordinate) {
	s.flight.Do("refresh", func() (any, error) {
		s.doRefresh(ctx, coord)
		return nil, nil
	})
}

func (s *Service) doRefresh(ctx context.Context, coord types.Coordinate) {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
	s.publish()

	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
		s.publish()
	}()

	// Required fetch. Failure here takes priority and skips the alerts
	// step for this cycle.
	periods, err := s.gateway.FetchPeriods(ctx, coord)
	if err != nil {
		if types.IsCancelled(err) {
			return
		}
		s.logger.Warn("periods fetch failed",
			"coordinate", coord.String(),
			"error", err,
		)
		s.mu.Lock()
		s.state.ErrorMessage = periodsMessage(err)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	c := coord
	s.state.PeriodsCoord = &c
	s.state.Periods = periods
	s.state.ErrorMessage = ""
	s.state.LastRefreshed = s.clock.Now()
	s.mu.Unlock()

	s.fetchAlerts(ctx, coord)
}

// fetchAlerts runs the best-effort alerts track: replace the alerts list on
// success and fan out notifications; on failure retain the previous list and
// leave the error message alone.
func (s *Service) fetchAlerts(ctx context.Context, coord types.Coordinate) {
	alerts, err := s.gateway.FetchActiveAlerts(ctx, coord)
	if err != nil {
		if !types.IsCancelled(err) {
			s.logger.Warn("alerts fetch failed, retaining previous alerts",
				"coordinate", coord.String(),
				"error", err,
			)
		}
		return
	}

	s.mu.Lock()
	c := coord
	s.state.AlertsCoord = &c
	s.state.Alerts = alerts
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.AlertsFetched(ctx, alerts, s.locationLabel)
	}
}

// LoadIfNeeded is the cheap variant for callers that poll on every location
// update. Alerts change at higher frequency than multi-day forecasts, so the
// two tracks are gated separately and never share one staleness clock: the
// alerts track is always re-checked first through its own debounce gate,
// then the periods gate decides whether to delegate to a full Refresh.
func (s *Service) LoadIfNeeded(ctx context.Context, coord types.Coordinate) {
	s.mu.Lock()
	alertsCoord := s.state.AlertsCoord
	haveAlerts := len(s.state.Alerts) > 0
	periodsCoord := s.state.PeriodsCoord
	havePeriods := len(s.state.Periods) > 0
	s.mu.Unlock()

	if !s.debounce.ShouldSkip(alertsCoord, coord, haveAlerts) {
		s.fetchAlerts(ctx, coord)
		s.publish()
	}

	if !s.debounce.ShouldSkip(periodsCoord, coord, havePeriods) {
		s.Refresh(ctx, coord)
	}
}

// periodsMessage collapses a periods-track failure into its user-facing
// message.
func periodsMessage(err error) string {
	switch types.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return forecastUnavailableAuth
	default:
		return forecastUnavailable
	}
}
