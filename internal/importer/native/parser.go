// Package native imports the income and expense CSV files produced by the finance export.
package native

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/charset"
	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

var ErrUnknownHeader = errors.New("not a finboard export: expected an income or expense header")

// Parser reads one export file. The header row decides whether rows are income or expenses;
// exported ids are dropped since the engine assigns new ones.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]finance.ImportItem, error) {
	utf8r, _, err := charset.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrUnknownHeader
	}

	var kind finance.Kind

	switch strings.Join(rows[0], ",") {
	case finance.IncomeCSVHeader:
		kind = finance.KindIncome
	case finance.ExpenseCSVHeader:
		kind = finance.KindExpense
	default:
		return nil, ErrUnknownHeader
	}

	items := make([]finance.ImportItem, 0, len(rows)-1)

	for i, row := range rows[1:] {
		line := i + 2

		if len(row) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", line, len(row))
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, row[2])
		}

		date, err := finance.ParseDate(strings.TrimSpace(row[4]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		items = append(items, finance.ImportItem{
			Kind: kind,
			Params: finance.CreateParams{
				Label:    row[1],
				Amount:   amount,
				Category: row[3],
				Date:     date,
			},
		})
	}

	return items, nil
}
