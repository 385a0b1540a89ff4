// Package finance holds the finance state engine: income and expense transactions, per-category
// budgets, alert notifications, monthly archives and the views derived from them.
package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrValidation marks rejected input. No state is changed when it is returned.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks an operation blocked by existing references.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an unknown transaction or archive id.
	ErrNotFound = errors.New("not found")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Kind distinguishes the two transaction variants.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Transaction is an income or an expense. Label is the source of an income or the
// description of an expense.
type Transaction struct {
	ID       int64
	Kind     Kind
	Label    string
	Amount   decimal.Decimal
	Category string
	Date     Date
}

// Budget is the spending cap of a category and the running sum of its expenses.
// Used may exceed Limit, and may drop below zero when expenses are deleted.
type Budget struct {
	Limit decimal.Decimal
	Used  decimal.Decimal
}

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Filter restricts the transaction views. The date range applies only when both bounds are set.
type Filter struct {
	Start    *Date
	End      *Date
	Category string
}

// Match reports whether tx passes the filter. Both date bounds are inclusive.
func (f Filter) Match(tx Transaction) bool {
	if f.Start != nil && f.End != nil {
		if tx.Date.Before(f.Start.Time) || tx.Date.After(f.End.Time) {
			return false
		}
	}

	if f.Category == "" || f.Category == CategoryAll {
		return true
	}

	return tx.Category == f.Category
}

// Apply returns the transactions matching the filter, preserving order.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}

	return out
}

// MonthArchive is the snapshot taken when a tracking month is closed.
type MonthArchive struct {
	ID            uuid.UUID
	Month         string
	ArchivedAt    time.Time
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	Budgets       map[string]Budget
	Income        []Transaction
	Expenses      []Transaction
}

// MonthSummary is one point of the monthly trend.
type MonthSummary struct {
	Month    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// Savings is the non-negative surplus of the month.
func (m MonthSummary) Savings() decimal.Decimal {
	s := m.Income.Sub(m.Expenses)
	if s.IsNegative() {
		return decimal.Zero
	}

	return s
}

// Summary holds the headline metrics computed over all current transactions.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	// SavingsRate is a percentage rounded to one decimal place; zero without income.
	SavingsRate decimal.Decimal
}

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// Level grades how much of a budget has been used.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// BudgetStatus is a budget with its usage percentage, rounded to an integer.
type BudgetStatus struct {
	Category string
	Budget   Budget
	Percent  decimal.Decimal
	Level    Level
}

// Alert is raised the first time a budget usage message is added to the notifications.
type Alert struct {
	Category string
	Percent  decimal.Decimal
	Message  string
	RaisedAt time.Time
}

// CreateParams describes a new transaction. A zero Date means today.
type CreateParams struct {
	Label    string
	Amount   decimal.Decimal
	Category string
	Date     Date
}

// ImportItem is one transaction of a batch import.
type ImportItem struct {
	Kind   Kind
	Params CreateParams
}
