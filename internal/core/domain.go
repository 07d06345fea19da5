package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Transaction is a single spend event. Immutable once created; removed
	// only by explicit deletion by id.
	Transaction struct {
		ID       string    `json:"id"`
		Fund     string    `json:"fund"`
		Amount   Money     `json:"amount"`
		Category string    `json:"category"`
		Date     time.Time `json:"date"`
	}

	// BudgetCategory is a budget bucket with its own monthly cap.
	BudgetCategory struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Budget Money  `json:"budget"`
	}

	// FundSource is an originating payment method a transaction is drawn from.
	FundSource struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// BudgetSettings is the settings aggregate: the monthly total plus the
	// ordered category and fund-source sets. Category caps may sum over the
	// total budget; that is a displayed state, not an error.
	BudgetSettings struct {
		TotalBudget Money            `json:"total_budget"`
		Categories  []BudgetCategory `json:"categories"`
		FundSources []FundSource     `json:"fund_sources"`
	}

	// SettingsPatch carries a partial settings update. Nil fields keep the
	// previously persisted values.
	SettingsPatch struct {
		TotalBudget *Money            `json:"total_budget,omitempty"`
		Categories  *[]BudgetCategory `json:"categories,omitempty"`
		FundSources *[]FundSource     `json:"fund_sources,omitempty"`
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeBudget = errors.New("negative budget")
	ErrEmptyFund      = errors.New("empty fund source")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyID        = errors.New("empty id")
	ErrDuplicateID    = errors.New("duplicate id")
)

// Slugify derives a stable identifier from a display name: lowercased, with
// whitespace runs collapsed to single hyphens. Derived once at creation; a
// rename never re-derives the id.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Fund) == "" {
		return ErrEmptyFund
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Amount.Validate()
}

func (c BudgetCategory) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Budget.Cents < 0 {
		return ErrNegativeBudget
	}
	return nil
}

func (f FundSource) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (s BudgetSettings) Validate() error {
	if s.TotalBudget.Cents < 0 {
		return ErrNegativeBudget
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := seen[c.ID]; ok {
			return ErrDuplicateID
		}
		seen[c.ID] = struct{}{}
	}
	funds := make(map[string]struct{}, len(s.FundSources))
	for _, f := range s.FundSources {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, ok := funds[f.ID]; ok {
			return ErrDuplicateID
		}
		funds[f.ID] = struct{}{}
	}
	return nil
}

// Validate checks only the fields present in the patch.
func (p SettingsPatch) Validate() error {
	if p.TotalBudget != nil && p.TotalBudget.Cents < 0 {
		return ErrNegativeBudget
	}
	partial := BudgetSettings{}
	if p.Categories != nil {
		partial.Categories = *p.Categories
	}
	if p.FundSources != nil {
		partial.FundSources = *p.FundSources
	}
	return partial.Validate()
}

// IsZero reports whether the patch carries no fields at all.
func (p SettingsPatch) IsZero() bool {
	return p.TotalBudget == nil && p.Categories == nil && p.FundSources == nil
}

// Apply merges the patch over s and returns the result. Fields absent from
// the patch retain their prior values; present fields are overwritten whole,
// including explicit empty lists. An empty list stays distinguishable from a
// never-persisted (nil) one.
func (s BudgetSettings) Apply(p SettingsPatch) BudgetSettings {
	out := BudgetSettings{
		TotalBudget: s.TotalBudget,
		Categories:  CloneCategories(s.Categories),
		FundSources: CloneFundSources(s.FundSources),
	}
	if p.TotalBudget != nil {
		out.TotalBudget = *p.TotalBudget
	}
	if p.Categories != nil {
		out.Categories = CloneCategories(*p.Categories)
	}
	if p.FundSources != nil {
		out.FundSources = CloneFundSources(*p.FundSources)
	}
	return out
}

// CloneCategories copies the slice, preserving nil (never persisted) versus
// empty (explicitly cleared).
func CloneCategories(in []BudgetCategory) []BudgetCategory {
	if in == nil {
		return nil
	}
	out := make([]BudgetCategory, len(in))
	copy(out, in)
	return out
}

// CloneFundSources copies the slice, preserving nil versus empty.
func CloneFundSources(in []FundSource) []FundSource {
	if in == nil {
		return nil
	}
	out := make([]FundSource, len(in))
	copy(out, in)
	return out
}
