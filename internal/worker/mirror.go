// Package worker replicates the transaction log into a secondary store by
// consuming the events the ledger publishes. Events carry only the id; the
// worker fetches the full record from the source of truth.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/log"
)

// Source is the store of record the worker reads full transactions from.
type Source interface {
	Get(ctx context.Context, id string) (core.Transaction, error)
}

// Target is the replica the worker writes into.
type Target interface {
	Put(ctx context.Context, tx core.Transaction) error
	Delete(ctx context.Context, id string) error
}

// EventStream delivers transaction events to a handler until the context ends.
type EventStream interface {
	ConsumeTransactionEvents(ctx context.Context, handler func(*amqp.TransactionEvent) error) error
}

type MirrorWorker struct {
	source Source
	target Target
	logger *log.Logger
}

func NewMirrorWorker(source Source, target Target, logger *log.Logger) *MirrorWorker {
	return &MirrorWorker{
		source: source,
		target: target,
		logger: logger.WithComponent("mirror-worker"),
	}
}

// Run consumes events until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, events EventStream) error {
	w.logger.Info("Mirror worker started")
	err := w.events(ctx, events)
	if errors.Is(err, context.Canceled) {
		w.logger.Info("Mirror worker stopped")
		return nil
	}
	return err
}

func (w *MirrorWorker) events(ctx context.Context, events EventStream) error {
	return events.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		handleCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return w.Handle(handleCtx, event)
	})
}

// Handle applies a single event to the target. A recorded event whose source
// row is already gone is acknowledged as stale rather than requeued forever.
func (w *MirrorWorker) Handle(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Type {
	case amqp.EventRecorded:
		tx, err := w.source.Get(ctx, event.ID)
		if errors.Is(err, sql.ErrNoRows) {
			w.logger.Warn("Skipping event for transaction no longer in source", "id", event.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch transaction %s: %w", event.ID, err)
		}
		if err := w.target.Put(ctx, tx); err != nil {
			return fmt.Errorf("mirror transaction %s: %w", event.ID, err)
		}
		w.logger.Info("Mirrored transaction", "id", tx.ID, "category", tx.Category)
		return nil

	case amqp.EventDeleted:
		if err := w.target.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("delete mirrored transaction %s: %w", event.ID, err)
		}
		w.logger.Info("Removed mirrored transaction", "id", event.ID)
		return nil

	default:
		w.logger.Warn("Ignoring event of unknown type", "type", event.Type, "id", event.ID)
		return nil
	}
}
