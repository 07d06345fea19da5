package core

// Aggregation over a settings snapshot plus a windowed transaction list.
// Pure functions: no I/O, no clock, no store access.

type AllocationStatus string

const (
	AllocationExact AllocationStatus = "exact"
	AllocationUnder AllocationStatus = "under"
	AllocationOver  AllocationStatus = "over"
)

// Allocation classifies how the per-category caps relate to the total budget.
// Difference is signed: positive means that much is left to allocate,
// negative means the caps overshoot the total by that much. The comparison is
// exact integer equality on cents.
type Allocation struct {
	Status     AllocationStatus `json:"status"`
	Allocated  Money            `json:"allocated"`
	Difference Money            `json:"difference"`
}

// CategorySummary is the per-category view the dashboard renders: the cap,
// the windowed spend, and the matching transactions newest first.
type CategorySummary struct {
	Category     string        `json:"category"`
	Name         string        `json:"name"`
	Budget       Money         `json:"budget"`
	Spent        Money         `json:"spent"`
	PercentUsed  float64       `json:"percent_used"`
	Transactions []Transaction `json:"transactions"`
}

// Summary is the full derived state for the current window.
type Summary struct {
	TotalBudget Money             `json:"total_budget"`
	TotalSpent  Money             `json:"total_spent"`
	PercentUsed float64           `json:"percent_used"`
	Allocation  Allocation        `json:"allocation"`
	Categories  []CategorySummary `json:"categories"`
}

// CategorySpent sums the amounts of transactions recorded against the given
// category id. No matches yields zero.
func CategorySpent(categoryID string, txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		if t.Category == categoryID {
			cents += t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// TotalSpent sums all amounts in the windowed set, independent of category
// grouping; transactions whose category no longer exists still count.
func TotalSpent(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// PercentUsed returns spent/budget as a percentage clamped to [0, 100].
// A budget of zero or less yields 0 rather than dividing by zero.
func PercentUsed(spent, budget Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	pct := spent.Dollars() / budget.Dollars() * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AllocationOf classifies the category caps against the total budget.
func AllocationOf(totalBudget Money, categories []BudgetCategory) Allocation {
	var allocated int64
	for _, c := range categories {
		allocated += c.Budget.Cents
	}
	diff := totalBudget.Cents - allocated
	status := AllocationExact
	switch {
	case diff > 0:
		status = AllocationUnder
	case diff < 0:
		status = AllocationOver
	}
	return Allocation{
		Status:     status,
		Allocated:  Money{Cents: allocated},
		Difference: Money{Cents: diff},
	}
}

// Summarize groups the windowed transactions by the categories present in
// settings. Categories with no matching transactions appear with spent = 0;
// transactions referencing a category that is no longer configured are
// excluded from the groups but still counted in TotalSpent. The incoming
// transaction order (newest first) is preserved within each group.
func Summarize(settings BudgetSettings, txs []Transaction) Summary {
	totalSpent := TotalSpent(txs)
	out := Summary{
		TotalBudget: settings.TotalBudget,
		TotalSpent:  totalSpent,
		PercentUsed: PercentUsed(totalSpent, settings.TotalBudget),
		Allocation:  AllocationOf(settings.TotalBudget, settings.Categories),
		Categories:  make([]CategorySummary, 0, len(settings.Categories)),
	}
	for _, c := range settings.Categories {
		group := make([]Transaction, 0)
		for _, t := range txs {
			if t.Category == c.ID {
				group = append(group, t)
			}
		}
		spent := CategorySpent(c.ID, txs)
		out.Categories = append(out.Categories, CategorySummary{
			Category:     c.ID,
			Name:         c.Name,
			Budget:       c.Budget,
			Spent:        spent,
			PercentUsed:  PercentUsed(spent, c.Budget),
			Transactions: group,
		})
	}
	return out
}
