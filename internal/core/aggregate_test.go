package core

import (
	"testing"
	"time"
)

func tx(id, category string, cents int64) Transaction {
	return Transaction{ID: id, Fund: "checking", Amount: Money{Cents: cents}, Category: category, Date: time.Now()}
}

func TestCategorySpentAdditivity(t *testing.T) {
	txs := []Transaction{
		tx("a", "grocery", 4250),
		tx("b", "grocery", 1000),
		tx("c", "rent", 160000),
	}
	if got := CategorySpent("grocery", txs); got.Cents != 5250 {
		t.Fatalf("grocery spent = %d, want 5250", got.Cents)
	}
	if got := CategorySpent("gas", txs); got.Cents != 0 {
		t.Fatalf("no-match spent = %d, want 0", got.Cents)
	}
}

func TestTotalSpentCountsOrphans(t *testing.T) {
	// "vacation" is not a configured category; it still counts toward the
	// overall total.
	txs := []Transaction{tx("a", "grocery", 100), tx("b", "vacation", 200)}
	if got := TotalSpent(txs); got.Cents != 300 {
		t.Fatalf("total spent = %d, want 300", got.Cents)
	}
}

func TestPercentUsedBounds(t *testing.T) {
	cases := []struct {
		spent, budget int64
		want          float64
	}{
		{5000, 10000, 50},
		{10000, 10000, 100},
		{20000, 10000, 100}, // clamped
		{0, 10000, 0},
		{5000, 0, 0}, // zero budget never divides
		{5000, -100, 0},
	}
	for i, tc := range cases {
		got := PercentUsed(Money{Cents: tc.spent}, Money{Cents: tc.budget})
		if got != tc.want {
			t.Fatalf("case %d: PercentUsed = %v, want %v", i, got, tc.want)
		}
		if got < 0 || got > 100 {
			t.Fatalf("case %d: out of range: %v", i, got)
		}
	}
}

func TestAllocationDefaultsAreExact(t *testing.T) {
	s := DefaultSettings()
	a := AllocationOf(s.TotalBudget, s.Categories)
	if a.Status != AllocationExact {
		t.Fatalf("default allocation = %s (diff %d), want exact", a.Status, a.Difference.Cents)
	}
	if a.Allocated.Cents != DefaultTotalBudgetCents {
		t.Fatalf("allocated = %d, want %d", a.Allocated.Cents, DefaultTotalBudgetCents)
	}
}

func TestAllocationUnderAndOver(t *testing.T) {
	total := Money{Cents: 5879_00}

	under := AllocationOf(total, []BudgetCategory{
		{ID: "a", Name: "A", Budget: Money{Cents: 3000_00}},
		{ID: "b", Name: "B", Budget: Money{Cents: 2000_00}},
	})
	if under.Status != AllocationUnder || under.Difference.Cents != 879_00 {
		t.Fatalf("under = %s diff %d, want under 87900", under.Status, under.Difference.Cents)
	}

	over := AllocationOf(total, []BudgetCategory{
		{ID: "a", Name: "A", Budget: Money{Cents: 6200_00}},
	})
	if over.Status != AllocationOver || over.Difference.Cents != -321_00 {
		t.Fatalf("over = %s diff %d, want over -32100", over.Status, over.Difference.Cents)
	}
}

func TestSummarizeGroups(t *testing.T) {
	settings := BudgetSettings{
		TotalBudget: Money{Cents: 1000_00},
		Categories: []BudgetCategory{
			{ID: "grocery", Name: "Grocery", Budget: Money{Cents: 400_00}},
			{ID: "gas", Name: "Gas", Budget: Money{Cents: 70_00}},
		},
	}
	txs := []Transaction{
		tx("b", "grocery", 1000),
		tx("a", "grocery", 4250),
		tx("c", "deleted-category", 9999),
	}

	sum := Summarize(settings, txs)

	if len(sum.Categories) != 2 {
		t.Fatalf("expected every configured category, got %d", len(sum.Categories))
	}
	grocery := sum.Categories[0]
	if grocery.Spent.Cents != 5250 || len(grocery.Transactions) != 2 {
		t.Fatalf("grocery spent=%d txs=%d", grocery.Spent.Cents, len(grocery.Transactions))
	}
	if grocery.Transactions[0].ID != "b" {
		t.Fatalf("input order must be preserved within a group")
	}
	gas := sum.Categories[1]
	if gas.Spent.Cents != 0 || len(gas.Transactions) != 0 {
		t.Fatalf("zero-spend category must still appear: %+v", gas)
	}
	// Orphans are excluded from groups but counted in the total.
	if sum.TotalSpent.Cents != 5250+9999 {
		t.Fatalf("total spent = %d", sum.TotalSpent.Cents)
	}
	if sum.Allocation.Status != AllocationUnder {
		t.Fatalf("allocation = %s", sum.Allocation.Status)
	}
}
