package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
	"github.com/MrJamesThe3rd/finboard/internal/rules/store"
)

const cgdExport = `Data mov.;Descrição;Montante
30-01-2026;UBER TRIP LISBOA;-12,40
29-01-2026;PINGO DOCE;-30,00
28-01-2026;SALARIO JAN;2.000,00
`

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	ruleSvc := rules.NewService(store.New(kv.NewMemory()))
	require.NoError(t, ruleSvc.Learn(ctx, "uber", "Transport"))
	require.NoError(t, ruleSvc.Learn(ctx, "salario", "Regular"))

	type testCase struct {
		name      string
		suggester importer.Suggester
		want      []string
	}

	tests := []testCase{
		{name: "WithRules", suggester: ruleSvc, want: []string{"Transport", importer.DefaultCategory, "Regular"}},
		{name: "WithoutRules", want: []string{importer.DefaultCategory, importer.DefaultCategory, importer.DefaultCategory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := importer.NewService(tt.suggester).Import(ctx, importer.FormatCGD, strings.NewReader(cgdExport))
			require.NoError(t, err)

			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.Params.Category)
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, finance.KindIncome, items[2].Kind)
		})
	}
}

func TestService_Import_KeepsFileCategories(t *testing.T) {
	input := "ID,Description,Amount,Category,Date\n4,\"Rent\",1500,\"Housing\",\"2025-03-02\"\n"

	items, err := importer.NewService(nil).Import(context.Background(), importer.FormatNative, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Housing", items[0].Params.Category)
	assert.Equal(t, finance.KindExpense, items[0].Kind)
}

func TestService_Import_Errors(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Import(context.Background(), "ofx", strings.NewReader(""))
	require.ErrorContains(t, err, "unknown format: ofx")

	_, err = svc.Import(context.Background(), importer.FormatNative, strings.NewReader("a,b\n"))
	require.ErrorContains(t, err, "parsing native file")
}
