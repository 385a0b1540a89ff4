package native_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/importer/native"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

func TestParser_RoundTripsEngineExport(t *testing.T) {
	ctx := context.Background()

	src, err := finance.New(ctx, kv.NewMemory(), finance.WithSeed(true))
	require.NoError(t, err)

	_, err = src.AddExpense(ctx, finance.CreateParams{
		Label:    `Dinner "Chez Nous", Lisbon`,
		Amount:   decimal.RequireFromString("87.40"),
		Category: "Food",
		Date:     finance.NewDate(2025, time.March, 20),
	})
	require.NoError(t, err)

	incomeCSV, expenseCSV := src.ExportTransactionsCSV()

	income, err := native.NewParser().Parse(strings.NewReader(incomeCSV))
	require.NoError(t, err)
	require.Len(t, income, len(src.Income()))

	for i, tx := range src.Income() {
		assert.Equal(t, finance.KindIncome, income[i].Kind)
		assert.Equal(t, tx.Label, income[i].Params.Label)
		assert.True(t, tx.Amount.Equal(income[i].Params.Amount))
		assert.Equal(t, tx.Category, income[i].Params.Category)
		assert.Equal(t, tx.Date, income[i].Params.Date)
	}

	expenses, err := native.NewParser().Parse(strings.NewReader(expenseCSV))
	require.NoError(t, err)
	require.Len(t, expenses, len(src.Expenses()))

	last := expenses[len(expenses)-1]
	assert.Equal(t, finance.KindExpense, last.Kind)
	assert.Equal(t, `Dinner "Chez Nous", Lisbon`, last.Params.Label)
	assert.Equal(t, "87.4", last.Params.Amount.String())

	dst, err := finance.New(ctx, kv.NewMemory(), finance.WithSeed(false))
	require.NoError(t, err)

	_, err = dst.Import(ctx, append(income, expenses...))
	require.NoError(t, err)
	assert.True(t, src.Balance().Equal(dst.Balance()))
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		wantErr string
	}

	tests := []testCase{
		{name: "Empty", input: "", wantErr: "not a finboard export"},
		{name: "HistoryFile", input: "Month,Income,Expenses,Balance\n", wantErr: "not a finboard export"},
		{name: "BadAmount", input: "ID,Source,Amount,Category,Date\n1,\"Salary\",lots,\"Regular\",\"2025-03-01\"\n", wantErr: "line 2: invalid amount"},
		{name: "BadDate", input: "ID,Source,Amount,Category,Date\n1,\"Salary\",10,\"Regular\",\"yesterday\"\n", wantErr: "line 2: invalid date"},
		{name: "ShortRow", input: "ID,Source,Amount,Category,Date\n1,\"Salary\",10\n", wantErr: "line 2: expected 5 fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := native.NewParser().Parse(strings.NewReader(tt.input))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
