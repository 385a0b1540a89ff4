package finance_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

func TestEngine_ArchiveCurrentMonth(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	_, err := e.AddIncome(ctx, expense("Salary", "3000", "Regular"))
	require.NoError(t, err)
	_, err = e.AddExpense(ctx, expense("Rent", "1000", "Housing"))
	require.NoError(t, err)

	first := e.ArchiveCurrentMonth(ctx)
	assert.Equal(t, "March 2025", first.Month)
	assertDecimal(t, "2000", first.Balance)
	assertDecimal(t, "1000", first.Budgets["Housing"].Used)
	assert.Len(t, first.Expenses, 1)

	assert.Empty(t, e.Income())
	assert.Empty(t, e.Expenses())

	housing := e.Budgets()["Housing"]
	assertDecimal(t, "1500", housing.Limit)
	assertDecimal(t, "0", housing.Used)

	_, err = e.AddIncome(ctx, expense("Bonus", "500", "Variable"))
	require.NoError(t, err)

	second := e.ArchiveCurrentMonth(ctx)

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second, history[0])
	assertDecimal(t, "500", history[0].TotalIncome)
	assertDecimal(t, "0", history[0].TotalExpenses)

	got, err := e.HistoryEntry(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "March 2025", got.Month)

	_, err = e.HistoryEntry(uuid.New())
	assert.ErrorIs(t, err, finance.ErrNotFound)
}

func TestEngine_LastSixMonths(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	e, _ := newEngine(t, finance.WithClock(func() time.Time { return now }))

	for m := time.January; m <= time.July; m++ {
		now = time.Date(2025, m, 10, 9, 0, 0, 0, time.UTC)

		_, err := e.AddIncome(ctx, expense("Salary", strconv.Itoa(int(m)*100), "Regular"))
		require.NoError(t, err)

		e.ArchiveCurrentMonth(ctx)
	}

	now = time.Date(2025, time.August, 3, 9, 0, 0, 0, time.UTC)
	_, err := e.AddIncome(ctx, expense("Salary", "800", "Regular"))
	require.NoError(t, err)
	_, err = e.AddExpense(ctx, expense("Rent", "300", "Housing"))
	require.NoError(t, err)

	got := e.LastSixMonths()
	require.Len(t, got, 6)

	months := make([]string, 0, len(got))
	for _, m := range got {
		months = append(months, m.Month)
	}

	assert.Equal(t, []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug"}, months)
	assertDecimal(t, "300", got[0].Income)
	assertDecimal(t, "800", got[5].Income)
	assertDecimal(t, "500", got[5].Balance)
	assertDecimal(t, "500", got[5].Savings())

	t.Run("ArchivedCurrentMonthWins", func(t *testing.T) {
		e.ArchiveCurrentMonth(ctx)

		_, err := e.AddIncome(ctx, expense("Late", "5", "Variable"))
		require.NoError(t, err)

		got := e.LastSixMonths()
		require.Len(t, got, 6)
		assert.Equal(t, "Aug", got[5].Month)
		assert.Equal(t, "Jul", got[4].Month)
		assertDecimal(t, "800", got[5].Income)
	})
}

func TestEngine_LastSixMonths_Empty(t *testing.T) {
	e, _ := newEngine(t)

	got := e.LastSixMonths()
	require.Len(t, got, 1)
	assert.Equal(t, "Mar", got[0].Month)
	assertDecimal(t, "0", got[0].Balance)
}

func TestMonthSummary_Savings(t *testing.T) {
	assertDecimal(t, "0", finance.MonthSummary{Income: dec("100"), Expenses: dec("250")}.Savings())
	assertDecimal(t, "40", finance.MonthSummary{Income: dec("100"), Expenses: dec("60")}.Savings())
}
