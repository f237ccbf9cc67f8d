package notifications

import (
	"context"
	"fmt"

	"skycast/internal/types"
)

// DefaultNotifyCap limits how many alerts may be pushed per refresh cycle.
// A deliberate cap to avoid notification spam when many alerts are
// simultaneously active.
const DefaultNotifyCap = 2

// Sink delivers one notification to the user. Implementations report whether
// delivery was actually scheduled or accepted; a false return leaves the
// alert eligible for retry on a future cycle.
type Sink interface {
	Notify(ctx context.Context, title, body, id string) (delivered bool, err error)
}

// PermissionRequester resolves the platform notification permission. Ensure
// is called lazily, only once a cycle actually has something to push.
type PermissionRequester interface {
	Ensure(ctx context.Context) (granted bool, err error)
}

// DedupLedger is the subset of Ledger the dispatcher needs.
type DedupLedger interface {
	HasNotified(ctx context.Context, id string) (bool, error)
	MarkNotified(ctx context.Context, id string) error
}

// Dispatcher runs the notify-on-new-alerts step after a successful alerts
// fetch. It is best-effort throughout: every failure inside the step is
// swallowed to a log line and must never affect the refresh cycle's outcome.
type Dispatcher struct {
	ledger  DedupLedger
	sink    Sink
	perms   PermissionRequester
	enabled bool
	cap     int
	logger  types.Logger
}

// DispatcherOption is a functional option for configuring a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPermissionRequester installs a platform permission gate. Without one,
// permission is assumed granted.
func WithPermissionRequester(perms PermissionRequester) DispatcherOption {
	return func(d *Dispatcher) {
		d.perms = perms
	}
}

// WithNotifyCap overrides the per-cycle notification cap.
func WithNotifyCap(cap int) DispatcherOption {
	return func(d *Dispatcher) {
		if cap > 0 {
			d.cap = cap
		}
	}
}

// NewDispatcher creates a Dispatcher. enabled mirrors the user's alert
// notification toggle; a disabled dispatcher is a no-op.
func NewDispatcher(ledger DedupLedger, sink Sink, enabled bool, logger types.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = types.NopLogger()
	}
	d := &Dispatcher{
		ledger:  ledger,
		sink:    sink,
		enabled: enabled,
		cap:     DefaultNotifyCap,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AlertsFetched pushes first-time-seen alerts from a freshly fetched list.
//
// At most the first cap alerts are considered, in provider order. Alerts
// already in the ledger are skipped. The ledger is only updated for alerts
// the sink actually accepted: a permission denial or delivery failure leaves
// the id eligible for a future cycle.
//
// locationLabel, when non-empty, is appended to the notification title.
func (d *Dispatcher) AlertsFetched(ctx context.Context, alerts []types.AlertFeature, locationLabel string) {
	if !d.enabled || len(alerts) == 0 {
		return
	}

	permissionChecked := false

	considered := alerts
	if len(considered) > d.cap {
		considered = considered[:d.cap]
	}

	for _, alert := range considered {
		if alert.ID == "" {
			continue
		}

		seen, err := d.ledger.HasNotified(ctx, alert.ID)
		if err != nil {
			d.logger.Warn("ledger lookup failed, skipping alert",
				"alert_id", alert.ID,
				"error", err,
			)
			continue
		}
		if seen {
			continue
		}

		if !permissionChecked && d.perms != nil {
			granted, err := d.perms.Ensure(ctx)
			if err != nil {
				d.logger.Warn("notification permission check failed", "error", err)
				return
			}
			if !granted {
				d.logger.Info("notification permission not granted, alerts stay eligible")
				return
			}
			permissionChecked = true
		}

		title := alert.Event
		if locationLabel != "" {
			title = fmt.Sprintf("%s (%s)", alert.Event, locationLabel)
		}

		body := alert.Headline
		if body == "" {
			body = alert.AreaDesc
		}

		delivered, err := d.sink.Notify(ctx, title, body, alert.ID)
		if err != nil {
			d.logger.Warn("notification delivery failed",
				"alert_id", alert.ID,
				"error", err,
			)
			continue
		}
		if !delivered {
			d.logger.Info("notification not accepted by sink",
				"alert_id", alert.ID,
			)
			continue
		}

		if err := d.ledger.MarkNotified(ctx, alert.ID); err != nil {
			d.logger.Warn("failed to record notified alert",
				"alert_id", alert.ID,
				"error", err,
			)
		}
	}
}
