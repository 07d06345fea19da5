package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/log"
)

type fakeSource struct {
	txs map[string]core.Transaction
}

func (f *fakeSource) Get(ctx context.Context, id string) (core.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, sql.ErrNoRows)
	}
	return tx, nil
}

type fakeTarget struct {
	puts    []core.Transaction
	deletes []string
	putErr  error
}

func (f *fakeTarget) Put(ctx context.Context, tx core.Transaction) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, tx)
	return nil
}

func (f *fakeTarget) Delete(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestHandleRecorded(t *testing.T) {
	tx := core.Transaction{
		ID:       "tx-1",
		Fund:     "checking",
		Amount:   core.Money{Cents: 4250},
		Category: "groceries",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	source := &fakeSource{txs: map[string]core.Transaction{"tx-1": tx}}
	target := &fakeTarget{}
	w := NewMirrorWorker(source, target, testLogger())

	err := w.Handle(context.Background(), amqp.NewTransactionEvent(amqp.EventRecorded, "tx-1"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(target.puts) != 1 || target.puts[0].ID != "tx-1" || target.puts[0].Amount.Cents != 4250 {
		t.Fatalf("mirrored = %+v", target.puts)
	}
}

func TestHandleRecordedStaleRowIsSkipped(t *testing.T) {
	w := NewMirrorWorker(&fakeSource{txs: map[string]core.Transaction{}}, &fakeTarget{}, testLogger())

	err := w.Handle(context.Background(), amqp.NewTransactionEvent(amqp.EventRecorded, "gone"))
	if err != nil {
		t.Fatalf("a stale event must be acknowledged, got %v", err)
	}
}

func TestHandleRecordedTargetFailureSurfaces(t *testing.T) {
	tx := core.Transaction{ID: "tx-1", Fund: "checking", Amount: core.Money{Cents: 100}, Category: "groceries", Date: time.Now()}
	target := &fakeTarget{putErr: errors.New("disk full")}
	w := NewMirrorWorker(&fakeSource{txs: map[string]core.Transaction{"tx-1": tx}}, target, testLogger())

	if err := w.Handle(context.Background(), amqp.NewTransactionEvent(amqp.EventRecorded, "tx-1")); err == nil {
		t.Fatalf("target failure must surface so the event is requeued")
	}
}

func TestHandleDeleted(t *testing.T) {
	target := &fakeTarget{}
	w := NewMirrorWorker(&fakeSource{txs: map[string]core.Transaction{}}, target, testLogger())

	if err := w.Handle(context.Background(), amqp.NewTransactionEvent(amqp.EventDeleted, "tx-9")); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if len(target.deletes) != 1 || target.deletes[0] != "tx-9" {
		t.Fatalf("deletes = %+v", target.deletes)
	}
}

func TestHandleUnknownTypeIgnored(t *testing.T) {
	target := &fakeTarget{}
	w := NewMirrorWorker(&fakeSource{txs: map[string]core.Transaction{}}, target, testLogger())

	if err := w.Handle(context.Background(), &amqp.TransactionEvent{Type: "mystery", ID: "x"}); err != nil {
		t.Fatalf("unknown types must be acknowledged, got %v", err)
	}
	if len(target.puts) != 0 || len(target.deletes) != 0 {
		t.Fatalf("unknown type must not touch the target")
	}
}
