package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadNeverPersisted(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Load(context.Background())
	if !errors.Is(err, store.ErrNoSettings) {
		t.Fatalf("err = %v, want ErrNoSettings", err)
	}
}

func TestSavePartialMergeKeepsUntouchedColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cats := []core.BudgetCategory{{ID: "groceries", Name: "Groceries", Budget: core.Money{Cents: 400_00}}}
	if _, err := repo.Save(ctx, core.SettingsPatch{Categories: &cats}); err != nil {
		t.Fatalf("save categories: %v", err)
	}

	total := core.Money{Cents: 6000_00}
	merged, err := repo.Save(ctx, core.SettingsPatch{TotalBudget: &total})
	if err != nil {
		t.Fatalf("save total: %v", err)
	}
	if merged.TotalBudget.Cents != 6000_00 {
		t.Fatalf("total = %d", merged.TotalBudget.Cents)
	}
	if len(merged.Categories) != 1 {
		t.Fatalf("categories lost on partial save: %+v", merged.Categories)
	}
	if merged.FundSources != nil {
		t.Fatalf("never-persisted fund sources must stay nil, got %+v", merged.FundSources)
	}
}

func TestExplicitEmptyListStaysEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	empty := []core.BudgetCategory{}
	if _, err := repo.Save(ctx, core.SettingsPatch{Categories: &empty}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	doc, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Categories == nil || len(doc.Categories) != 0 {
		t.Fatalf("explicit empty must load as empty, not nil: %+v", doc.Categories)
	}
}

func TestInsertListGetDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Insert(ctx, "checking", core.Money{Cents: 4250}, "groceries")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("insert must assign an id")
	}

	got, err := repo.Get(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 4250 || got.Fund != "checking" {
		t.Fatalf("got = %+v", got)
	}

	txs, err := repo.List(ctx, tx.Date.Add(-time.Hour), tx.Date.Add(time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != tx.ID {
		t.Fatalf("list = %+v", txs)
	}

	if err := repo.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, tx.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get after delete = %v, want ErrNoRows", err)
	}
	if err := repo.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "", core.Money{Cents: 100}, "groceries"); !errors.Is(err, core.ErrEmptyFund) {
		t.Fatalf("err = %v, want ErrEmptyFund", err)
	}
	if _, err := repo.Insert(ctx, "checking", core.Money{Cents: 0}, "groceries"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}
