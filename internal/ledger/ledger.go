// Package ledger is the append-only spend log: record, windowed read,
// remove. The "trailing 30 days" window is calendar-month arithmetic (same
// day-of-month one month back), so its true length varies between 28 and 31
// days. That is the intended behavior, not an approximation to fix.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// EventPublisher receives ledger mutations for downstream mirroring. A nil
// publisher disables events; publish failures never fail the mutation.
type EventPublisher interface {
	TransactionRecorded(ctx context.Context, tx core.Transaction) error
	TransactionDeleted(ctx context.Context, tx core.Transaction) error
}

type Ledger struct {
	txs    store.TransactionStore
	events EventPublisher
	now    func() time.Time
}

type Option func(*Ledger)

// WithClock overrides the time source; tests pin "now" with it.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPublisher attaches an event publisher for recorded/deleted events.
func WithPublisher(p EventPublisher) Option {
	return func(l *Ledger) { l.events = p }
}

func New(txs store.TransactionStore, opts ...Option) *Ledger {
	l := &Ledger{txs: txs, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Flow is a one-shot token owned by a single add-transaction flow instance.
// However many times the confirmation step fires, the insert happens once;
// repeat calls get the first outcome back.
type Flow struct {
	mu   sync.Mutex
	done bool
	tx   core.Transaction
	err  error
}

func NewFlow() *Flow {
	return &Flow{}
}

// Record appends a spend event exactly once per flow token. The store
// assigns the id and creation timestamp; callers supply neither.
func (l *Ledger) Record(ctx context.Context, flow *Flow, fund string, amount core.Money, category string) (core.Transaction, error) {
	if flow == nil {
		return l.record(ctx, fund, amount, category)
	}

	flow.mu.Lock()
	defer flow.mu.Unlock()
	if flow.done {
		return flow.tx, flow.err
	}
	flow.done = true
	flow.tx, flow.err = l.record(ctx, fund, amount, category)
	return flow.tx, flow.err
}

func (l *Ledger) record(ctx context.Context, fund string, amount core.Money, category string) (core.Transaction, error) {
	if strings.TrimSpace(fund) == "" {
		return core.Transaction{}, core.ErrEmptyFund
	}
	if strings.TrimSpace(category) == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := l.txs.Insert(ctx, fund, amount, category)
	if err != nil {
		return core.Transaction{}, err
	}

	if l.events != nil {
		if err := l.events.TransactionRecorded(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to publish recorded event",
				"id", tx.ID, "error", err)
			// The transaction is saved; the event is best effort.
		}
	}
	return tx, nil
}

// Window returns the transactions of the trailing calendar month, bounds
// inclusive, newest first. A store read failure degrades to an empty window
// rather than blocking the caller.
func (l *Ledger) Window(ctx context.Context) []core.Transaction {
	to := l.now()
	from := to.AddDate(0, -1, 0)

	txs, err := l.txs.List(ctx, from, to)
	if err != nil {
		slog.WarnContext(ctx, "Transaction store unavailable, window is empty", "error", err)
		return nil
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	return txs
}

// Remove deletes a transaction by id. Unknown ids are a no-op, per the store
// contract.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	if err := l.txs.Delete(ctx, id); err != nil {
		return err
	}
	if l.events != nil {
		if err := l.events.TransactionDeleted(ctx, core.Transaction{ID: id}); err != nil {
			slog.ErrorContext(ctx, "Failed to publish deleted event",
				"id", id, "error", err)
		}
	}
	return nil
}

// Summary computes the full derived state for the current window against a
// settings snapshot.
func (l *Ledger) Summary(ctx context.Context, settings core.BudgetSettings) core.Summary {
	return core.Summarize(settings, l.Window(ctx))
}
