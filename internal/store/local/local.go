// Package local is the on-device persistence variant: one JSON document per
// key (category list, fund-source list, transaction array, total budget)
// under a data directory. Synchronous, single-process, mutex-guarded.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

const (
	categoriesFile   = "budget_categories.json"
	fundSourcesFile  = "fund_sources.json"
	transactionsFile = "transactions.json"
	totalBudgetFile  = "total_budget.json"
)

// Store keeps the working state in memory and writes each document back to
// disk on mutation. Documents are plain JSON arrays (or a bare number for the
// total), no versioning or schema tag.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time

	totalBudget *core.Money
	categories  []core.BudgetCategory
	fundSources []core.FundSource
	txs         []core.Transaction
}

// Open loads whatever documents exist under dir, creating the directory if
// needed. Missing documents are not an error; they read as never-persisted.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{dir: dir, now: time.Now}

	if err := readDoc(filepath.Join(dir, categoriesFile), &s.categories); err != nil {
		return nil, err
	}
	if err := readDoc(filepath.Join(dir, fundSourcesFile), &s.fundSources); err != nil {
		return nil, err
	}
	if err := readDoc(filepath.Join(dir, transactionsFile), &s.txs); err != nil {
		return nil, err
	}
	var total core.Money
	err := readDoc(filepath.Join(dir, totalBudgetFile), &total)
	switch {
	case err == nil && total.Cents > 0:
		s.totalBudget = &total
	case err != nil:
		return nil, err
	}
	return s, nil
}

// Load implements store.SettingsStore. Never-persisted documents come back
// as zero fields; store.ErrNoSettings when nothing was ever written.
func (s *Store) Load(_ context.Context) (core.BudgetSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totalBudget == nil && s.categories == nil && s.fundSources == nil {
		return core.BudgetSettings{}, store.ErrNoSettings
	}
	out := core.BudgetSettings{
		Categories:  core.CloneCategories(s.categories),
		FundSources: core.CloneFundSources(s.fundSources),
	}
	if s.totalBudget != nil {
		out.TotalBudget = *s.totalBudget
	}
	return out, nil
}

// Save implements store.SettingsStore: only documents named by the patch are
// rewritten, the rest keep their prior persisted values.
func (s *Store) Save(_ context.Context, patch core.SettingsPatch) (core.BudgetSettings, error) {
	if err := patch.Validate(); err != nil {
		return core.BudgetSettings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.TotalBudget != nil {
		v := *patch.TotalBudget
		if err := writeDoc(filepath.Join(s.dir, totalBudgetFile), v); err != nil {
			return core.BudgetSettings{}, err
		}
		s.totalBudget = &v
	}
	if patch.Categories != nil {
		cats := core.CloneCategories(*patch.Categories)
		if cats == nil {
			cats = []core.BudgetCategory{}
		}
		if err := writeDoc(filepath.Join(s.dir, categoriesFile), cats); err != nil {
			return core.BudgetSettings{}, err
		}
		s.categories = cats
	}
	if patch.FundSources != nil {
		funds := core.CloneFundSources(*patch.FundSources)
		if funds == nil {
			funds = []core.FundSource{}
		}
		if err := writeDoc(filepath.Join(s.dir, fundSourcesFile), funds); err != nil {
			return core.BudgetSettings{}, err
		}
		s.fundSources = funds
	}

	out := core.BudgetSettings{
		Categories:  core.CloneCategories(s.categories),
		FundSources: core.CloneFundSources(s.fundSources),
	}
	if s.totalBudget != nil {
		out.TotalBudget = *s.totalBudget
	}
	return out, nil
}

// List implements store.TransactionStore, newest first, bounds inclusive.
func (s *Store) List(_ context.Context, from, to time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Insert implements store.TransactionStore: the store assigns the id and the
// creation timestamp.
func (s *Store) Insert(_ context.Context, fund string, amount core.Money, category string) (core.Transaction, error) {
	tx := core.Transaction{
		ID:       uuid.NewString(),
		Fund:     fund,
		Amount:   amount,
		Category: category,
		Date:     s.now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append([]core.Transaction(nil), s.txs...), tx)
	if err := writeDoc(filepath.Join(s.dir, transactionsFile), next); err != nil {
		return core.Transaction{}, err
	}
	s.txs = next
	return tx, nil
}

// Put writes a transaction verbatim, keeping its id and date. A record with
// the same id is replaced. Used when replicating from another store.
func (s *Store) Put(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.ID == "" {
		return core.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Transaction, 0, len(s.txs)+1)
	for _, t := range s.txs {
		if t.ID == tx.ID {
			continue
		}
		next = append(next, t)
	}
	next = append(next, tx)
	if err := writeDoc(filepath.Join(s.dir, transactionsFile), next); err != nil {
		return err
	}
	s.txs = next
	return nil
}

// Delete implements store.TransactionStore; unknown ids are a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Transaction, 0, len(s.txs))
	found := false
	for _, t := range s.txs {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return nil
	}
	if err := writeDoc(filepath.Join(s.dir, transactionsFile), next); err != nil {
		return err
	}
	s.txs = next
	return nil
}

func readDoc(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeDoc replaces the document atomically via a temp file and rename.
func writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
