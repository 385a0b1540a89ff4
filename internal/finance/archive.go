package finance

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const monthLabelLayout = "January 2006"

// ArchiveCurrentMonth snapshots totals, budgets and transactions under the current month label,
// then resets every budget's usage and clears both transaction lists. Archiving a month that is
// already archived replaces its entry.
func (e *Engine) ArchiveCurrentMonth(ctx context.Context) MonthArchive {
	e.mu.Lock()

	now := e.now()
	income, expenses := sum(e.income), sum(e.expenses)

	entry := MonthArchive{
		Month:         now.Format(monthLabelLayout),
		ArchivedAt:    now,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		Budgets:       maps.Clone(e.budgets),
		Income:        slices.Clone(e.income),
		Expenses:      slices.Clone(e.expenses),
	}

	if i := slices.IndexFunc(e.history, func(h MonthArchive) bool { return h.Month == entry.Month }); i >= 0 {
		entry.ID = e.history[i].ID
		e.history[i] = entry
	} else {
		entry.ID = uuid.New()
		e.history = append(e.history, entry)
	}

	for cat, b := range e.budgets {
		b.Used = decimal.Zero
		e.budgets[cat] = b
	}

	e.income = nil
	e.expenses = nil

	e.log.Info("archived month", "month", entry.Month, "balance", entry.Balance.String())

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return entry
}

// History returns the archives in stored order.
func (e *Engine) History() []MonthArchive {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.history)
}

func (e *Engine) HistoryEntry(id uuid.UUID) (MonthArchive, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, h := range e.history {
		if h.ID == id {
			return h, nil
		}
	}

	return MonthArchive{}, ErrNotFound
}

// LastSixMonths returns up to six monthly totals, oldest first. The live totals stand in for
// the current month unless it has already been archived.
func (e *Engine) LastSixMonths() []MonthSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	type point struct {
		at      time.Time
		summary MonthSummary
	}

	now := e.now()
	current := now.Format(monthLabelLayout)
	archived := false

	points := make([]point, 0, len(e.history)+1)

	for _, h := range e.history {
		if h.Month == current {
			archived = true
		}

		points = append(points, point{at: h.ArchivedAt, summary: MonthSummary{
			Month:    h.ArchivedAt.Format("Jan"),
			Income:   h.TotalIncome,
			Expenses: h.TotalExpenses,
			Balance:  h.Balance,
		}})
	}

	if !archived {
		income, expenses := sum(e.income), sum(e.expenses)
		points = append(points, point{at: now, summary: MonthSummary{
			Month:    now.Format("Jan"),
			Income:   income,
			Expenses: expenses,
			Balance:  income.Sub(expenses),
		}})
	}

	slices.SortStableFunc(points, func(a, b point) int { return b.at.Compare(a.at) })
	points = points[:min(len(points), 6)]

	out := make([]MonthSummary, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		out = append(out, points[i].summary)
	}

	return out
}
