// Package store defines the persistence ports the budget core talks through.
// Implementations exist for local JSON documents (store/local), the remote
// record-store API (store/remote), and SQLite (storage). Callers must not
// depend on which one is active.
package store

import (
	"context"
	"errors"
	"time"

	"pennywise/internal/core"
)

// ErrNoSettings is returned by Load when nothing has ever been persisted.
var ErrNoSettings = errors.New("no settings persisted")

type (
	// SettingsStore reads and writes the budget settings document.
	SettingsStore interface {
		// Load returns the persisted settings. Fields that were never
		// persisted come back as zero values (nil slices); ErrNoSettings
		// means no settings document exists at all.
		Load(ctx context.Context) (core.BudgetSettings, error)

		// Save merges the patch into the persisted document and returns the
		// merged result. Absent patch fields retain prior values.
		Save(ctx context.Context, patch core.SettingsPatch) (core.BudgetSettings, error)
	}

	// TransactionStore is the append-only spend log.
	TransactionStore interface {
		// List returns transactions with from <= date <= to, newest first.
		List(ctx context.Context, from, to time.Time) ([]core.Transaction, error)

		// Insert assigns a fresh id and creation timestamp; callers supply
		// neither.
		Insert(ctx context.Context, fund string, amount core.Money, category string) (core.Transaction, error)

		// Delete removes a transaction by id. Deleting a nonexistent id is
		// not an error.
		Delete(ctx context.Context, id string) error
	}
)
