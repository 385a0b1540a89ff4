package finance

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

func sum(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}

	return total
}

// balance is always derived from the transaction lists. The caller holds e.mu.
func (e *Engine) balance() decimal.Decimal {
	return sum(e.income).Sub(sum(e.expenses))
}

func (e *Engine) TotalIncome() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return sum(e.income)
}

func (e *Engine) TotalExpenses() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return sum(e.expenses)
}

func (e *Engine) Balance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.balance()
}

// Summary computes the headline metrics over all transactions, ignoring the filter.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.summary()
}

// summary is Summary for a caller that holds e.mu.
func (e *Engine) summary() Summary {
	income, expenses := sum(e.income), sum(e.expenses)

	s := Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		SavingsRate:   decimal.Zero,
	}

	if income.IsPositive() {
		s.SavingsRate = s.Balance.Mul(hundred).Div(income).Round(1)
	}

	return s
}

// Income returns every income in insertion order.
func (e *Engine) Income() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.income)
}

// Expenses returns every expense in insertion order.
func (e *Engine) Expenses() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.expenses)
}

// SetFilter replaces the view filter. An empty category means CategoryAll.
func (e *Engine) SetFilter(f Filter) error {
	if f.Start != nil && f.End != nil && f.End.Before(f.Start.Time) {
		return validationf("filter end %s is before start %s", f.End, f.Start)
	}

	if f.Category == "" {
		f.Category = CategoryAll
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.filter = f

	return nil
}

func (e *Engine) Filter() Filter {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.filter
}

func (e *Engine) FilteredIncome() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.filter.Apply(e.income)
}

func (e *Engine) FilteredExpenses() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.filter.Apply(e.expenses)
}

// ExpensesByCategory sums expenses per category, sorted by category.
func (e *Engine) ExpensesByCategory() []CategoryTotal {
	e.mu.Lock()
	defer e.mu.Unlock()

	totals := make(map[string]decimal.Decimal)
	for _, tx := range e.expenses {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, amt := range totals {
		out = append(out, CategoryTotal{Category: cat, Amount: amt})
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		return cmp.Compare(a.Category, b.Category)
	})

	return out
}
