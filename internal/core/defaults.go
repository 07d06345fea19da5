package core

// DefaultTotalBudgetCents is the monthly budget target used until a real
// value has been persisted.
const DefaultTotalBudgetCents int64 = 5879_00

// DefaultSettings returns the built-in budget configuration seeded the first
// time the app runs with no persisted state. Once a real value exists for a
// field these defaults are never reapplied to it.
func DefaultSettings() BudgetSettings {
	return BudgetSettings{
		TotalBudget: Money{Cents: DefaultTotalBudgetCents},
		Categories: []BudgetCategory{
			{ID: "grocery", Name: "Grocery", Budget: Money{Cents: 400_00}},
			{ID: "rent", Name: "Rent", Budget: Money{Cents: 1600_00}},
			{ID: "car", Name: "Car", Budget: Money{Cents: 330_00}},
			{ID: "gas", Name: "Gas", Budget: Money{Cents: 70_00}},
			{ID: "eating-out", Name: "Eating Out", Budget: Money{Cents: 320_00}},
			{ID: "personal-development", Name: "Personal Development", Budget: Money{Cents: 200_00}},
			{ID: "essential-subscriptions", Name: "Essential Subscriptions", Budget: Money{Cents: 50_00}},
			{ID: "medical-health", Name: "Medical/Health", Budget: Money{Cents: 20_00}},
			{ID: "investments-assets", Name: "Investments/Assets", Budget: Money{Cents: 2889_00}},
		},
		FundSources: []FundSource{
			{ID: "checking", Name: "Checking Account"},
			{ID: "chase", Name: "Chase Credit Card"},
			{ID: "bofa", Name: "BofA Credit Card"},
			{ID: "discover", Name: "Discover Credit Card"},
		},
	}
}
