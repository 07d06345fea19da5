// Package settings resolves the authoritative budget configuration: the
// persisted document when one exists, built-in defaults otherwise. A store
// that cannot be reached never fails resolution; it degrades to defaults.
package settings

import (
	"context"
	"errors"
	"log/slog"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// EmptyListPolicy decides what an explicitly persisted empty category or
// fund-source list resolves to. The two persistence lineages disagree:
// the record-store variant keeps explicit empties, the on-device variant
// refills them from defaults. Both are preserved as strategies.
type EmptyListPolicy string

const (
	// PreserveEmpty keeps an explicit empty list as-is.
	PreserveEmpty EmptyListPolicy = "preserve"
	// SubstituteDefaults replaces an empty list with the built-in defaults.
	SubstituteDefaults EmptyListPolicy = "defaults"
)

func (p EmptyListPolicy) IsValid() bool {
	return p == PreserveEmpty || p == SubstituteDefaults
}

type Resolver struct {
	store  store.SettingsStore
	policy EmptyListPolicy
}

func NewResolver(st store.SettingsStore, policy EmptyListPolicy) *Resolver {
	if !policy.IsValid() {
		policy = PreserveEmpty
	}
	return &Resolver{store: st, policy: policy}
}

// Resolve returns the effective settings. It never fails: an unreachable
// store or a never-persisted state yields the defaults. Fields that were
// persisted at least once supersede their default permanently; whether an
// explicit empty list counts as "persisted" follows the configured policy.
func (r *Resolver) Resolve(ctx context.Context) core.BudgetSettings {
	defaults := core.DefaultSettings()

	persisted, err := r.store.Load(ctx)
	if errors.Is(err, store.ErrNoSettings) {
		return defaults
	}
	if err != nil {
		slog.WarnContext(ctx, "Settings store unavailable, using defaults", "error", err)
		return defaults
	}

	out := persisted
	if out.TotalBudget.Cents <= 0 {
		out.TotalBudget = defaults.TotalBudget
	}
	out.Categories = r.resolveCategories(persisted.Categories, defaults.Categories)
	out.FundSources = r.resolveFundSources(persisted.FundSources, defaults.FundSources)
	return out
}

func (r *Resolver) resolveCategories(persisted, defaults []core.BudgetCategory) []core.BudgetCategory {
	if persisted == nil {
		return defaults
	}
	if len(persisted) == 0 && r.policy == SubstituteDefaults {
		return defaults
	}
	return persisted
}

func (r *Resolver) resolveFundSources(persisted, defaults []core.FundSource) []core.FundSource {
	if persisted == nil {
		return defaults
	}
	if len(persisted) == 0 && r.policy == SubstituteDefaults {
		return defaults
	}
	return persisted
}

// Save validates and persists a partial update, returning the merged
// document. Write failures surface to the caller; nothing is rolled back.
func (r *Resolver) Save(ctx context.Context, patch core.SettingsPatch) (core.BudgetSettings, error) {
	if err := patch.Validate(); err != nil {
		return core.BudgetSettings{}, err
	}
	merged, err := r.store.Save(ctx, patch)
	if err != nil {
		slog.ErrorContext(ctx, "Settings save failed", "error", err)
		return core.BudgetSettings{}, err
	}
	return merged, nil
}

// NewCategory builds a category from a display name and cap, deriving the
// stable slug id once, at creation time.
func NewCategory(name string, budget core.Money) core.BudgetCategory {
	return core.BudgetCategory{ID: core.Slugify(name), Name: name, Budget: budget}
}

// NewFundSource builds a fund source from a display name.
func NewFundSource(name string) core.FundSource {
	return core.FundSource{ID: core.Slugify(name), Name: name}
}
