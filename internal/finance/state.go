package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

// Persisted state keys. Each holds one JSON document.
const (
	KeyBalance        = "balance"
	KeyIncome         = "income"
	KeyExpenses       = "expenses"
	KeyBudgets        = "budgets"
	KeyNotifications  = "notifications"
	KeyAlertThreshold = "alertThreshold"
	KeyMonthlyHistory = "monthlyHistory"
)

// amount serializes as a bare JSON number so stored documents keep numeric amounts.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

type incomeRecord struct {
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	Amount   amount `json:"amount"`
	Category string `json:"category"`
	Date     Date   `json:"date"`
}

type expenseRecord struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      amount `json:"amount"`
	Category    string `json:"category"`
	Date        Date   `json:"date"`
}

type budgetRecord struct {
	Limit amount `json:"limit"`
	Used  amount `json:"used"`
}

type archiveRecord struct {
	ID            uuid.UUID               `json:"id"`
	Month         string                  `json:"month"`
	Date          time.Time               `json:"date"`
	TotalIncome   amount                  `json:"totalIncome"`
	TotalExpenses amount                  `json:"totalExpenses"`
	Balance       amount                  `json:"balance"`
	Budgets       map[string]budgetRecord `json:"budgets"`
	Income        []incomeRecord          `json:"income"`
	Expenses      []expenseRecord         `json:"expenses"`
}

func toIncomeRecords(txs []Transaction) []incomeRecord {
	out := make([]incomeRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, incomeRecord{
			ID:       tx.ID,
			Source:   tx.Label,
			Amount:   amount{tx.Amount},
			Category: tx.Category,
			Date:     tx.Date,
		})
	}

	return out
}

func toExpenseRecords(txs []Transaction) []expenseRecord {
	out := make([]expenseRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, expenseRecord{
			ID:          tx.ID,
			Description: tx.Label,
			Amount:      amount{tx.Amount},
			Category:    tx.Category,
			Date:        tx.Date,
		})
	}

	return out
}

func fromIncomeRecords(recs []incomeRecord) []Transaction {
	out := make([]Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, Transaction{
			ID:       r.ID,
			Kind:     KindIncome,
			Label:    r.Source,
			Amount:   r.Amount.Decimal,
			Category: r.Category,
			Date:     r.Date,
		})
	}

	return out
}

func fromExpenseRecords(recs []expenseRecord) []Transaction {
	out := make([]Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, Transaction{
			ID:       r.ID,
			Kind:     KindExpense,
			Label:    r.Description,
			Amount:   r.Amount.Decimal,
			Category: r.Category,
			Date:     r.Date,
		})
	}

	return out
}

func toBudgetRecords(budgets map[string]Budget) map[string]budgetRecord {
	out := make(map[string]budgetRecord, len(budgets))
	for cat, b := range budgets {
		out[cat] = budgetRecord{Limit: amount{b.Limit}, Used: amount{b.Used}}
	}

	return out
}

func fromBudgetRecords(recs map[string]budgetRecord) map[string]Budget {
	out := make(map[string]Budget, len(recs))
	for cat, r := range recs {
		out[cat] = Budget{Limit: r.Limit.Decimal, Used: r.Used.Decimal}
	}

	return out
}

func toArchiveRecords(history []MonthArchive) []archiveRecord {
	out := make([]archiveRecord, 0, len(history))
	for _, h := range history {
		out = append(out, archiveRecord{
			ID:            h.ID,
			Month:         h.Month,
			Date:          h.ArchivedAt,
			TotalIncome:   amount{h.TotalIncome},
			TotalExpenses: amount{h.TotalExpenses},
			Balance:       amount{h.Balance},
			Budgets:       toBudgetRecords(h.Budgets),
			Income:        toIncomeRecords(h.Income),
			Expenses:      toExpenseRecords(h.Expenses),
		})
	}

	return out
}

func fromArchiveRecords(recs []archiveRecord) []MonthArchive {
	out := make([]MonthArchive, 0, len(recs))
	for _, r := range recs {
		id := r.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		out = append(out, MonthArchive{
			ID:            id,
			Month:         r.Month,
			ArchivedAt:    r.Date,
			TotalIncome:   r.TotalIncome.Decimal,
			TotalExpenses: r.TotalExpenses.Decimal,
			Balance:       r.Balance.Decimal,
			Budgets:       fromBudgetRecords(r.Budgets),
			Income:        fromIncomeRecords(r.Income),
			Expenses:      fromExpenseRecords(r.Expenses),
		})
	}

	return out
}

// entries encodes the whole state. The caller holds e.mu.
func (e *Engine) entries() ([]kv.Entry, error) {
	notifications := e.notifications
	if notifications == nil {
		notifications = []string{}
	}

	docs := []struct {
		key   string
		value any
	}{
		{KeyBalance, amount{e.balance()}},
		{KeyIncome, toIncomeRecords(e.income)},
		{KeyExpenses, toExpenseRecords(e.expenses)},
		{KeyBudgets, toBudgetRecords(e.budgets)},
		{KeyNotifications, notifications},
		{KeyAlertThreshold, amount{e.threshold}},
		{KeyMonthlyHistory, toArchiveRecords(e.history)},
	}

	entries := make([]kv.Entry, 0, len(docs))

	for _, d := range docs {
		b, err := json.Marshal(d.value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", d.key, err)
		}

		entries = append(entries, kv.Entry{Key: d.key, Value: b})
	}

	return entries, nil
}

// read decodes key into dst and reports whether a stored value was used.
// A store failure degrades the engine; a malformed document is skipped with a warning.
func (e *Engine) read(ctx context.Context, key string, dst any) bool {
	if e.degraded {
		return false
	}

	b, err := e.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false
	}

	if err != nil {
		e.degrade(err)
		return false
	}

	if err := json.Unmarshal(b, dst); err != nil {
		e.log.Warn("ignoring unreadable state entry", "key", key, "error", err)
		return false
	}

	return true
}

func (e *Engine) load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		income    []incomeRecord
		expenses  []expenseRecord
		budgets   map[string]budgetRecord
		notes     []string
		threshold amount
		history   []archiveRecord
		balance   amount
	)

	if e.read(ctx, KeyIncome, &income) {
		e.income = fromIncomeRecords(income)
	} else if e.seed {
		e.income = sampleIncome()
	}

	if e.read(ctx, KeyExpenses, &expenses) {
		e.expenses = fromExpenseRecords(expenses)
	} else if e.seed {
		e.expenses = sampleExpenses()
	}

	if e.read(ctx, KeyBudgets, &budgets) {
		e.budgets = fromBudgetRecords(budgets)
	} else if e.seed {
		e.budgets = sampleBudgets()
	}

	if e.budgets == nil {
		e.budgets = make(map[string]Budget)
	}

	if e.read(ctx, KeyNotifications, &notes) {
		e.notifications = notes
	}

	e.threshold = DefaultAlertThreshold
	if e.read(ctx, KeyAlertThreshold, &threshold) {
		if validThreshold(threshold.Decimal) {
			e.threshold = threshold.Decimal
		} else {
			e.log.Warn("ignoring out of range alert threshold", "threshold", threshold.String())
		}
	}

	if e.read(ctx, KeyMonthlyHistory, &history) {
		e.history = fromArchiveRecords(history)
	}

	e.sanitizeBudgets()
	e.reconcileBudgets()

	if e.read(ctx, KeyBalance, &balance) && !balance.Equal(e.balance()) {
		e.log.Debug("stored balance differs from transactions, using derived value",
			"stored", balance.String(), "derived", e.balance().String())
	}
}

// sanitizeBudgets drops budgets whose limit cannot bound anything.
func (e *Engine) sanitizeBudgets() {
	for cat, b := range maps.Clone(e.budgets) {
		if !b.Limit.IsPositive() {
			e.log.Warn("dropping budget with non-positive limit", "category", cat, "limit", b.Limit.String())
			delete(e.budgets, cat)
		}
	}
}

// reconcileBudgets gives every expense category a budget, so that Used always equals the
// category's expense sum for categories that were missing one.
func (e *Engine) reconcileBudgets() {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range e.expenses {
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	for cat, sum := range sums {
		if _, ok := e.budgets[cat]; ok {
			continue
		}

		e.budgets[cat] = Budget{Limit: sum.Mul(budgetHeadroom), Used: sum}
		e.log.Info("created missing budget for expense category", "category", cat)
	}
}
