package finance

import (
	"strconv"
	"strings"
)

const (
	IncomeCSVHeader  = "ID,Source,Amount,Category,Date"
	ExpenseCSVHeader = "ID,Description,Amount,Category,Date"
	HistoryCSVHeader = "Month,Income,Expenses,Balance"
)

// quote wraps a text field in double quotes, doubling any embedded quote.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func transactionsCSV(header string, txs []Transaction) string {
	var b strings.Builder

	b.WriteString(header)
	b.WriteByte('\n')

	for _, tx := range txs {
		b.WriteString(strings.Join([]string{
			strconv.FormatInt(tx.ID, 10),
			quote(tx.Label),
			tx.Amount.String(),
			quote(tx.Category),
			quote(tx.Date.String()),
		}, ","))
		b.WriteByte('\n')
	}

	return b.String()
}

// CSVExport is every export file rendered from one state snapshot, together with the totals
// of that snapshot.
type CSVExport struct {
	Income   string
	Expenses string
	History  string
	Summary  Summary
}

// ExportCSV renders all export files under a single lock so they agree with each other.
func (e *Engine) ExportCSV() CSVExport {
	e.mu.Lock()
	defer e.mu.Unlock()

	return CSVExport{
		Income:   transactionsCSV(IncomeCSVHeader, e.income),
		Expenses: transactionsCSV(ExpenseCSVHeader, e.expenses),
		History:  historyCSV(e.history),
		Summary:  e.summary(),
	}
}

// ExportTransactionsCSV renders the income and expense lists, unfiltered and in list order.
func (e *Engine) ExportTransactionsCSV() (income, expenses string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return transactionsCSV(IncomeCSVHeader, e.income), transactionsCSV(ExpenseCSVHeader, e.expenses)
}

// ExportHistoryCSV renders one row per archived month in stored order.
func (e *Engine) ExportHistoryCSV() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return historyCSV(e.history)
}

func historyCSV(history []MonthArchive) string {
	var b strings.Builder

	b.WriteString(HistoryCSVHeader)
	b.WriteByte('\n')

	for _, h := range history {
		b.WriteString(strings.Join([]string{
			quote(h.Month),
			h.TotalIncome.String(),
			h.TotalExpenses.String(),
			h.Balance.String(),
		}, ","))
		b.WriteByte('\n')
	}

	return b.String()
}
