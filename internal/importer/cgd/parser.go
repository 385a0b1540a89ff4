// Package cgd imports Caixa Geral de Depósitos CSV exports.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/charset"
	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

var ErrUnknownLayout = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

const dateLayout = "02-01-2006"

// Parser turns a CGD export into uncategorised import items. Negative or debit amounts
// become expenses, positive or credit amounts become income.
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
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for i, row := range rows {
		cols := headerColumns(row)

		for _, l := range layouts {
			if hasColumns(cols, l.columns()) {
				return parseRows(l, cols, rows[i+1:], i+1)
			}
		}
	}

	return nil, ErrUnknownLayout
}

func headerColumns(row []string) map[string]int {
	cols := make(map[string]int, len(row))

	for i, cell := range row {
		if name := strings.TrimSpace(cell); name != "" {
			cols[name] = i
		}
	}

	return cols
}

func hasColumns(cols map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}

	return true
}

// parseRows reads the data rows following the header at 0-based line headerLine-1.
// Rows without a date in the expected format are footers or page breaks and are skipped.
func parseRows(l Layout, cols map[string]int, rows [][]string, headerLine int) ([]finance.ImportItem, error) {
	var items []finance.ImportItem

	for i, row := range rows {
		line := headerLine + i + 1

		t, err := time.Parse(dateLayout, cell(row, cols[l.Date]))
		if err != nil {
			continue
		}

		desc := cell(row, cols[l.Desc])
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		kind, amount, ok := rowAmount(l, cols, row)
		if !ok {
			continue
		}

		items = append(items, finance.ImportItem{
			Kind: kind,
			Params: finance.CreateParams{
				Label:  desc,
				Amount: amount,
				Date:   finance.DateOf(t),
			},
		})
	}

	return items, nil
}

func rowAmount(l Layout, cols map[string]int, row []string) (finance.Kind, decimal.Decimal, bool) {
	if l.Amount != "" {
		d, ok := nonZero(cell(row, cols[l.Amount]))
		if !ok {
			return "", decimal.Zero, false
		}

		if d.IsNegative() {
			return finance.KindExpense, d.Abs(), true
		}

		return finance.KindIncome, d, true
	}

	if d, ok := nonZero(cell(row, cols[l.Debit])); ok {
		return finance.KindExpense, d.Abs(), true
	}

	if d, ok := nonZero(cell(row, cols[l.Credit])); ok {
		return finance.KindIncome, d.Abs(), true
	}

	return "", decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
