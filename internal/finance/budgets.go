package finance

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	warningFloor = decimal.NewFromInt(60)
	dangerFloor  = decimal.NewFromInt(85)
)

func validThreshold(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThanOrEqual(decimal.NewFromInt(1))
}

// UpdateBudgetLimit sets the limit of a category. Unknown categories are created with
// nothing used.
func (e *Engine) UpdateBudgetLimit(ctx context.Context, category string, limit decimal.Decimal) (Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Budget{}, validationf("category is required")
	}

	if !limit.IsPositive() {
		return Budget{}, validationf("limit must be greater than zero, got %s", limit)
	}

	e.mu.Lock()
	b := e.budgets[category]
	b.Limit = limit
	e.budgets[category] = b

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return b, nil
}

// SetAlertThreshold sets the fraction of a limit above which a budget raises an alert.
func (e *Engine) SetAlertThreshold(ctx context.Context, v decimal.Decimal) error {
	if !validThreshold(v) {
		return validationf("alert threshold must be in (0, 1], got %s", v)
	}

	e.mu.Lock()
	e.threshold = v

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return nil
}

func (e *Engine) AlertThreshold() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.threshold
}

// EvaluateBudgetAlerts appends a notification for every budget used above the threshold,
// skipping messages already present. It returns the alerts that were added.
func (e *Engine) EvaluateBudgetAlerts(ctx context.Context) []Alert {
	e.mu.Lock()
	added := e.evaluateAlerts()
	if len(added) > 0 {
		e.persist(ctx)
	}
	e.mu.Unlock()

	e.publish(ctx, added)

	return added
}

// evaluateAlerts walks budgets in category order. The caller holds e.mu.
func (e *Engine) evaluateAlerts() []Alert {
	var added []Alert

	for _, cat := range slices.Sorted(maps.Keys(e.budgets)) {
		b := e.budgets[cat]
		if !b.Limit.IsPositive() || !b.Used.GreaterThan(b.Limit.Mul(e.threshold)) {
			continue
		}

		pct := usagePercent(b)
		msg := fmt.Sprintf("Alert: budget for %s at %s%% of limit", cat, pct)

		if slices.Contains(e.notifications, msg) {
			continue
		}

		e.notifications = append(e.notifications, msg)
		added = append(added, Alert{Category: cat, Percent: pct, Message: msg, RaisedAt: e.now()})
	}

	return added
}

func usagePercent(b Budget) decimal.Decimal {
	if !b.Limit.IsPositive() {
		return decimal.Zero
	}

	return b.Used.Mul(hundred).Div(b.Limit).Round(0)
}

// ClearNotifications empties the notification list.
func (e *Engine) ClearNotifications(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.notifications = nil

	e.persist(ctx)
}

func (e *Engine) Notifications() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.notifications)
}

// RemoveCategory succeeds only for a category that nothing references. Any transaction or
// budget using the name blocks the removal with ErrConflict, so there is never state to drop.
func (e *Engine) RemoveCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return validationf("category is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inUse := func(tx Transaction) bool { return tx.Category == category }

	switch {
	case slices.ContainsFunc(e.expenses, inUse):
		return fmt.Errorf("%w: category %q is used by expenses", ErrConflict, category)
	case slices.ContainsFunc(e.income, inUse):
		return fmt.Errorf("%w: category %q is used by income", ErrConflict, category)
	}

	if _, ok := e.budgets[category]; ok {
		return fmt.Errorf("%w: category %q has a budget", ErrConflict, category)
	}

	return nil
}

// Categories returns the sorted union of categories used by transactions and budgets.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	set := make(map[string]struct{}, len(e.budgets))

	for cat := range e.budgets {
		set[cat] = struct{}{}
	}

	for _, tx := range e.income {
		set[tx.Category] = struct{}{}
	}

	for _, tx := range e.expenses {
		set[tx.Category] = struct{}{}
	}

	return slices.Sorted(maps.Keys(set))
}

// Budgets returns a copy of the budget map.
func (e *Engine) Budgets() map[string]Budget {
	e.mu.Lock()
	defer e.mu.Unlock()

	return maps.Clone(e.budgets)
}

// BudgetStatuses grades every budget by usage, sorted by category.
func (e *Engine) BudgetStatuses() []BudgetStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]BudgetStatus, 0, len(e.budgets))

	for _, cat := range slices.Sorted(maps.Keys(e.budgets)) {
		b := e.budgets[cat]

		level := LevelDanger
		if b.Limit.IsPositive() {
			raw := b.Used.Mul(hundred).Div(b.Limit)

			switch {
			case raw.LessThan(warningFloor):
				level = LevelOK
			case raw.LessThan(dangerFloor):
				level = LevelWarning
			}
		}

		out = append(out, BudgetStatus{Category: cat, Budget: b, Percent: usagePercent(b), Level: level})
	}

	return out
}
