package finance

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func (e *Engine) validate(p CreateParams) (CreateParams, error) {
	p.Label = strings.TrimSpace(p.Label)
	p.Category = strings.TrimSpace(p.Category)

	switch {
	case p.Label == "":
		return p, validationf("label is required")
	case p.Category == "":
		return p, validationf("category is required")
	case !p.Amount.IsPositive():
		return p, validationf("amount must be greater than zero, got %s", p.Amount)
	}

	if p.Date.IsZero() {
		p.Date = e.today()
	}

	return p, nil
}

func (e *Engine) newTransaction(kind Kind, p CreateParams) Transaction {
	return Transaction{
		ID:       e.ids.NextID(),
		Kind:     kind,
		Label:    p.Label,
		Amount:   p.Amount,
		Category: p.Category,
		Date:     p.Date,
	}
}

// AddIncome records an income. Budgets are not affected.
func (e *Engine) AddIncome(ctx context.Context, p CreateParams) (Transaction, error) {
	p, err := e.validate(p)
	if err != nil {
		return Transaction{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx := e.newTransaction(KindIncome, p)
	e.income = append(e.income, tx)

	e.log.Debug("added income", "id", tx.ID, "category", tx.Category, "amount", tx.Amount.String())

	e.persist(ctx)

	return tx, nil
}

// AddExpense records an expense and charges it to its category budget, creating the budget
// with a limit of 1.5 times the amount when the category is new.
func (e *Engine) AddExpense(ctx context.Context, p CreateParams) (Transaction, error) {
	p, err := e.validate(p)
	if err != nil {
		return Transaction{}, err
	}

	e.mu.Lock()
	tx := e.newTransaction(KindExpense, p)
	e.expenses = append(e.expenses, tx)
	e.charge(tx)

	e.log.Debug("added expense", "id", tx.ID, "category", tx.Category, "amount", tx.Amount.String())

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return tx, nil
}

// charge adds an expense to its category budget. The caller holds e.mu.
func (e *Engine) charge(tx Transaction) {
	b, ok := e.budgets[tx.Category]
	if !ok {
		e.budgets[tx.Category] = Budget{Limit: tx.Amount.Mul(budgetHeadroom), Used: tx.Amount}
		return
	}

	b.Used = b.Used.Add(tx.Amount)
	e.budgets[tx.Category] = b
}

// DeleteIncome removes the income with the given id.
func (e *Engine) DeleteIncome(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.IndexFunc(e.income, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return ErrNotFound
	}

	e.income = slices.Delete(e.income, i, i+1)

	e.persist(ctx)

	return nil
}

// DeleteExpense removes the expense with the given id and refunds its budget. Used is not
// clamped and can become negative when the budget was reset after the expense was charged.
func (e *Engine) DeleteExpense(ctx context.Context, id int64) error {
	e.mu.Lock()

	i := slices.IndexFunc(e.expenses, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		e.mu.Unlock()
		return ErrNotFound
	}

	tx := e.expenses[i]
	e.expenses = slices.Delete(e.expenses, i, i+1)

	if b, ok := e.budgets[tx.Category]; ok {
		b.Used = b.Used.Sub(tx.Amount)
		e.budgets[tx.Category] = b
	}

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return nil
}

// Import records a batch of transactions atomically: every item is validated before any is
// applied, and alerts are evaluated once at the end.
func (e *Engine) Import(ctx context.Context, items []ImportItem) ([]Transaction, error) {
	valid := make([]ImportItem, 0, len(items))

	for i, item := range items {
		if item.Kind != KindIncome && item.Kind != KindExpense {
			return nil, validationf("item %d: unknown kind %q", i+1, item.Kind)
		}

		p, err := e.validate(item.Params)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		valid = append(valid, ImportItem{Kind: item.Kind, Params: p})
	}

	e.mu.Lock()

	created := make([]Transaction, 0, len(valid))

	e.log.Debug("importing transactions", "count", len(valid))

	for _, item := range valid {
		tx := e.newTransaction(item.Kind, item.Params)

		if item.Kind == KindIncome {
			e.income = append(e.income, tx)
		} else {
			e.expenses = append(e.expenses, tx)
			e.charge(tx)
		}

		created = append(created, tx)
	}

	alerts := e.evaluateAlerts()
	e.persist(ctx)
	e.mu.Unlock()

	e.publish(ctx, alerts)

	return created, nil
}
