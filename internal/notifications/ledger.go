// Package notifications implements alert notification fan-out: a bounded
// persisted ledger of already-notified alert ids, and the dispatcher that
// decides which freshly fetched alerts get pushed through the notify sink.
package notifications

import (
	"context"
	"fmt"
	"sync"

	"skycast/internal/types"
)

// DefaultLedgerCapacity bounds the persisted set of notified alert ids.
const DefaultLedgerCapacity = 200

// ledgerKey is the settings key holding the flat array of notified ids.
const ledgerKey = "alerts.notified_ids"

// LedgerStore is the minimal persistence interface the ledger requires: a
// string-set under one settings key. An absent key reads as an empty set.
type LedgerStore interface {
	GetStringSlice(ctx context.Context, key string) ([]string, error)
	SetStringSlice(ctx context.Context, key string, values []string) error
}

// Ledger is a bounded set of alert identifiers that have already been pushed
// to the user. Its only purpose is best-effort duplicate suppression, not an
// audit trail: when the set exceeds capacity it shrinks to an arbitrary
// subset, and insertion order is not meaningful.
//
// The ledger never shrinks except via capacity enforcement or ClearAll. An
// alert id that disappears from the active list and later reappears is still
// suppressed as long as its id remains in the ledger.
type Ledger struct {
	store    LedgerStore
	capacity int
	logger   types.Logger

	mu     sync.Mutex
	ids    map[string]struct{}
	loaded bool
}

// NewLedger creates a Ledger over the given store. A capacity of zero or
// less falls back to DefaultLedgerCapacity.
func NewLedger(store LedgerStore, capacity int, logger types.Logger) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCapacity
	}
	if logger == nil {
		logger = types.NopLogger()
	}
	return &Ledger{
		store:    store,
		capacity: capacity,
		logger:   logger,
		ids:      make(map[string]struct{}),
	}
}

// load populates the in-memory set from the store on first use.
// Callers must hold l.mu.
func (l *Ledger) load(ctx context.Context) error {
	if l.loaded {
		return nil
	}

	values, err := l.store.GetStringSlice(ctx, ledgerKey)
	if err != nil {
		return types.NewAppError(types.ErrCodeStoreFailure, "loading notified-alert ledger", err)
	}

	for _, id := range values {
		l.ids[id] = struct{}{}
	}
	l.loaded = true
	return nil
}

// persist writes the current set back to the store.
// Callers must hold l.mu.
func (l *Ledger) persist(ctx context.Context) error {
	values := make([]string, 0, len(l.ids))
	for id := range l.ids {
		values = append(values, id)
	}

	if err := l.store.SetStringSlice(ctx, ledgerKey, values); err != nil {
		return types.NewAppError(types.ErrCodeStoreFailure, "persisting notified-alert ledger", err)
	}
	return nil
}

// HasNotified reports whether the alert id has already been pushed.
func (l *Ledger) HasNotified(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.load(ctx); err != nil {
		return false, err
	}

	_, ok := l.ids[id]
	return ok, nil
}

// MarkNotified records the alert id as pushed. It is idempotent. After
// insertion, if the set exceeds capacity it shrinks to capacity by keeping
// an arbitrary subset; map iteration order makes the eviction
// non-deterministic, which is acceptable for duplicate suppression.
func (l *Ledger) MarkNotified(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.load(ctx); err != nil {
		return err
	}

	if _, ok := l.ids[id]; ok {
		return nil
	}

	l.ids[id] = struct{}{}

	if len(l.ids) > l.capacity {
		evicted := 0
		for existing := range l.ids {
			if len(l.ids) <= l.capacity {
				break
			}
			delete(l.ids, existing)
			evicted++
		}
		l.logger.Info("ledger over capacity, evicted entries",
			"capacity", l.capacity,
			"evicted", evicted,
		)
	}

	return l.persist(ctx)
}

// ClearAll forgets every notified id. This is the only path that empties the
// ledger.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ids = make(map[string]struct{})
	l.loaded = true

	if err := l.persist(ctx); err != nil {
		return fmt.Errorf("ClearAll: %w", err)
	}
	return nil
}

// Size returns the current number of ids in the ledger.
func (l *Ledger) Size(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.load(ctx); err != nil {
		return 0, err
	}
	return len(l.ids), nil
}
