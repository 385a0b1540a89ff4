package finance_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

func TestEngine_AddExpense_BudgetLifecycle(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	rent, err := e.AddExpense(ctx, expense("Rent", "1500", "Housing"))
	require.NoError(t, err)

	housing := e.Budgets()["Housing"]
	assertDecimal(t, "2250", housing.Limit)
	assertDecimal(t, "1500", housing.Used)

	_, err = e.AddExpense(ctx, expense("Food", "200", "Housing"))
	require.NoError(t, err)

	housing = e.Budgets()["Housing"]
	assertDecimal(t, "2250", housing.Limit)
	assertDecimal(t, "1700", housing.Used)

	require.NoError(t, e.DeleteExpense(ctx, rent.ID))

	housing = e.Budgets()["Housing"]
	assertDecimal(t, "2250", housing.Limit)
	assertDecimal(t, "200", housing.Used)
}

func TestEngine_AddIncome(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	tx, err := e.AddIncome(ctx, finance.CreateParams{Label: " Salary ", Amount: dec("5000"), Category: "Regular"})
	require.NoError(t, err)

	assert.Equal(t, finance.KindIncome, tx.Kind)
	assert.Equal(t, "Salary", tx.Label)
	assert.Equal(t, finance.DateOf(fixedNow), tx.Date)
	assert.Empty(t, e.Budgets())
	assertDecimal(t, "5000", e.Balance())
}

func TestEngine_AddValidation(t *testing.T) {
	type testCase struct {
		name   string
		params finance.CreateParams
	}

	tests := []testCase{
		{name: "ZeroAmount", params: expense("Rent", "0", "Housing")},
		{name: "NegativeAmount", params: expense("Rent", "-10", "Housing")},
		{name: "EmptyLabel", params: expense("  ", "10", "Housing")},
		{name: "EmptyCategory", params: expense("Rent", "10", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e, _ := newEngine(t)

			_, err := e.AddExpense(ctx, tt.params)
			require.ErrorIs(t, err, finance.ErrValidation)

			_, err = e.AddIncome(ctx, tt.params)
			require.ErrorIs(t, err, finance.ErrValidation)

			assert.Empty(t, e.Expenses())
			assert.Empty(t, e.Income())
			assert.Empty(t, e.Budgets())
		})
	}
}

func TestEngine_DeleteUnknown(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	_, err := e.AddExpense(ctx, expense("Rent", "100", "Housing"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.DeleteExpense(ctx, 999), finance.ErrNotFound)
	assert.ErrorIs(t, e.DeleteIncome(ctx, 999), finance.ErrNotFound)

	assert.Len(t, e.Expenses(), 1)
	assertDecimal(t, "100", e.Budgets()["Housing"].Used)
}

func TestEngine_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	seen := make(map[int64]bool)

	for range 100 {
		tx, err := e.AddIncome(ctx, finance.CreateParams{Label: "Tip", Amount: dec("1"), Category: "Variable"})
		require.NoError(t, err)

		assert.False(t, seen[tx.ID], "duplicate id %d", tx.ID)
		seen[tx.ID] = true
	}
}

func TestEngine_Invariants(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	ops := []struct {
		add      *finance.CreateParams
		isIncome bool
		deleteAt int
	}{
		{add: new(expense("Rent", "1500", "Housing"))},
		{add: new(expense("Groceries", "120.50", "Food"))},
		{add: new(expense("Salary", "4000", "Regular")), isIncome: true},
		{add: new(expense("Snacks", "9.99", "Food"))},
		{deleteAt: 1},
		{add: new(expense("Bus", "2.40", "Transport"))},
		{deleteAt: 0},
		{add: new(expense("Water", "30", "Housing"))},
	}

	for i, op := range ops {
		if op.add != nil {
			var err error
			if op.isIncome {
				_, err = e.AddIncome(ctx, *op.add)
			} else {
				_, err = e.AddExpense(ctx, *op.add)
			}

			require.NoError(t, err, "step %d", i)
		} else {
			expenses := e.Expenses()
			require.NoError(t, e.DeleteExpense(ctx, expenses[op.deleteAt].ID), "step %d", i)
		}

		perCategory := map[string]decimal.Decimal{}
		for _, tx := range e.Expenses() {
			perCategory[tx.Category] = perCategory[tx.Category].Add(tx.Amount)
		}

		for cat, b := range e.Budgets() {
			assert.True(t, perCategory[cat].Equal(b.Used), "step %d: %s used %s", i, cat, b.Used)
		}

		s := e.Summary()
		assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpenses)), "step %d", i)
		assert.True(t, e.Balance().Equal(e.TotalIncome().Sub(e.TotalExpenses())), "step %d", i)
	}
}

func TestEngine_Import(t *testing.T) {
	t.Run("AppliesAll", func(t *testing.T) {
		ctx := context.Background()
		e, _ := newEngine(t)

		created, err := e.Import(ctx, []finance.ImportItem{
			{Kind: finance.KindIncome, Params: expense("Salary", "3000", "Regular")},
			{Kind: finance.KindExpense, Params: expense("Rent", "900", "Housing")},
			{Kind: finance.KindExpense, Params: expense("Power", "100", "Housing")},
		})
		require.NoError(t, err)

		assert.Len(t, created, 3)
		assert.Len(t, e.Income(), 1)
		assert.Len(t, e.Expenses(), 2)

		housing := e.Budgets()["Housing"]
		assertDecimal(t, "1350", housing.Limit)
		assertDecimal(t, "1000", housing.Used)
	})

	t.Run("RejectsWholeBatch", func(t *testing.T) {
		ctx := context.Background()
		e, _ := newEngine(t)

		_, err := e.Import(ctx, []finance.ImportItem{
			{Kind: finance.KindExpense, Params: expense("Rent", "900", "Housing")},
			{Kind: finance.KindExpense, Params: expense("Broken", "-1", "Housing")},
		})
		require.ErrorIs(t, err, finance.ErrValidation)

		assert.Empty(t, e.Expenses())
		assert.Empty(t, e.Budgets())
	})

	t.Run("UnknownKind", func(t *testing.T) {
		ctx := context.Background()
		e, _ := newEngine(t)

		_, err := e.Import(ctx, []finance.ImportItem{{Kind: "transfer", Params: expense("Move", "1", "Savings")}})
		require.ErrorIs(t, err, finance.ErrValidation)
	})
}
