// Package storage is the SQLite-backed record store powering the HTTP API:
// a single budget_settings document row (partial merge happens here, on the
// storage side) plus an append-only transactions table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pennywise/internal/core"
	"pennywise/internal/store"

	_ "modernc.org/sqlite"
)

// settingsRowID pins the single settings document, mirroring the one-row
// "default" document of the record-store lineage.
const settingsRowID = "default"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// settingsRow mirrors the nullable document columns: NULL means the field
// was never persisted, which is what keeps "explicit empty list" and
// "absent" distinguishable.
type settingsRow struct {
	totalCents  sql.NullInt64
	categories  sql.NullString
	fundSources sql.NullString
}

func (row settingsRow) decode() (core.BudgetSettings, error) {
	var out core.BudgetSettings
	if row.totalCents.Valid {
		out.TotalBudget = core.Money{Cents: row.totalCents.Int64}
	}
	if row.categories.Valid {
		if err := json.Unmarshal([]byte(row.categories.String), &out.Categories); err != nil {
			return core.BudgetSettings{}, fmt.Errorf("decode categories: %w", err)
		}
		if out.Categories == nil {
			out.Categories = []core.BudgetCategory{}
		}
	}
	if row.fundSources.Valid {
		if err := json.Unmarshal([]byte(row.fundSources.String), &out.FundSources); err != nil {
			return core.BudgetSettings{}, fmt.Errorf("decode fund sources: %w", err)
		}
		if out.FundSources == nil {
			out.FundSources = []core.FundSource{}
		}
	}
	return out, nil
}

func (r *SQLiteRepository) loadRow(ctx context.Context) (settingsRow, error) {
	var row settingsRow
	err := r.db.QueryRowContext(ctx,
		`SELECT total_budget_cents, categories, fund_sources FROM budget_settings WHERE id = ?`,
		settingsRowID,
	).Scan(&row.totalCents, &row.categories, &row.fundSources)
	return row, err
}

// Load implements store.SettingsStore.
func (r *SQLiteRepository) Load(ctx context.Context) (core.BudgetSettings, error) {
	row, err := r.loadRow(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetSettings{}, store.ErrNoSettings
	}
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return row.decode()
}

// Save implements store.SettingsStore: a read-modify-write of the single
// settings row. Only columns named by the patch are overwritten; columns
// never persisted stay NULL.
func (r *SQLiteRepository) Save(ctx context.Context, patch core.SettingsPatch) (core.BudgetSettings, error) {
	if err := patch.Validate(); err != nil {
		return core.BudgetSettings{}, err
	}

	row, err := r.loadRow(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return core.BudgetSettings{}, fmt.Errorf("load settings for merge: %w", err)
	}

	if patch.TotalBudget != nil {
		row.totalCents = sql.NullInt64{Int64: patch.TotalBudget.Cents, Valid: true}
	}
	if patch.Categories != nil {
		cats := *patch.Categories
		if cats == nil {
			cats = []core.BudgetCategory{}
		}
		data, err := json.Marshal(cats)
		if err != nil {
			return core.BudgetSettings{}, fmt.Errorf("encode categories: %w", err)
		}
		row.categories = sql.NullString{String: string(data), Valid: true}
	}
	if patch.FundSources != nil {
		funds := *patch.FundSources
		if funds == nil {
			funds = []core.FundSource{}
		}
		data, err := json.Marshal(funds)
		if err != nil {
			return core.BudgetSettings{}, fmt.Errorf("encode fund sources: %w", err)
		}
		row.fundSources = sql.NullString{String: string(data), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO budget_settings (id, total_budget_cents, categories, fund_sources, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_budget_cents = excluded.total_budget_cents,
			categories         = excluded.categories,
			fund_sources       = excluded.fund_sources,
			updated_at         = excluded.updated_at`,
		settingsRowID, row.totalCents, row.categories, row.fundSources, r.now().UTC(),
	)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("save settings: %w", err)
	}

	merged, err := row.decode()
	if err != nil {
		return core.BudgetSettings{}, err
	}
	slog.InfoContext(ctx, "Budget settings saved",
		"total_set", patch.TotalBudget != nil,
		"categories_set", patch.Categories != nil,
		"fund_sources_set", patch.FundSources != nil)
	return merged, nil
}

// List implements store.TransactionStore: bounds inclusive, newest first.
func (r *SQLiteRepository) List(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fund, amount_cents, category, date
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var cents int64
		if err := rows.Scan(&t.ID, &t.Fund, &cents, &t.Category, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.Money{Cents: cents}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Insert implements store.TransactionStore: the store assigns a fresh uuid
// and "now" as the creation timestamp.
func (r *SQLiteRepository) Insert(ctx context.Context, fund string, amount core.Money, category string) (core.Transaction, error) {
	tx := core.Transaction{
		ID:       uuid.NewString(),
		Fund:     fund,
		Amount:   amount,
		Category: category,
		Date:     r.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, fund, amount_cents, category, date)
		VALUES (?, ?, ?, ?, ?)`,
		tx.ID, tx.Fund, tx.Amount.Cents, tx.Category, tx.Date,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"fund", tx.Fund,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return tx, nil
}

// Get returns a single transaction by id; the mirror worker uses it to fetch
// the full record named by an event.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	var t core.Transaction
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, fund, amount_cents, category, date
		FROM transactions WHERE id = ?`, id,
	).Scan(&t.ID, &t.Fund, &cents, &t.Category, &t.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	t.Amount = core.Money{Cents: cents}
	return t, nil
}

// Delete implements store.TransactionStore; deleting an unknown id is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Delete of unknown transaction id ignored", "id", id)
	}
	return nil
}
