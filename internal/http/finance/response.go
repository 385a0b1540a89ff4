package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

type transactionResponse struct {
	ID       int64           `json:"id"`
	Kind     finance.Kind    `json:"kind"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     finance.Date    `json:"date"`
}

func toResponse(tx finance.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		Kind:     tx.Kind,
		Label:    tx.Label,
		Amount:   tx.Amount,
		Category: tx.Category,
		Date:     tx.Date,
	}
}

func toResponseList(txs []finance.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type summaryResponse struct {
	TotalIncome   decimal.Decimal         `json:"total_income"`
	TotalExpenses decimal.Decimal         `json:"total_expenses"`
	Balance       decimal.Decimal         `json:"balance"`
	SavingsRate   decimal.Decimal         `json:"savings_rate"`
	ByCategory    []categoryTotalResponse `json:"by_category"`
	Degraded      bool                    `json:"degraded"`
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func toSummaryResponse(s finance.Summary, totals []finance.CategoryTotal, degraded bool) summaryResponse {
	resp := summaryResponse{
		TotalIncome:   s.TotalIncome,
		TotalExpenses: s.TotalExpenses,
		Balance:       s.Balance,
		SavingsRate:   s.SavingsRate,
		ByCategory:    make([]categoryTotalResponse, len(totals)),
		Degraded:      degraded,
	}

	for i, t := range totals {
		resp.ByCategory[i] = categoryTotalResponse{Category: t.Category, Amount: t.Amount}
	}

	return resp
}

type monthResponse struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Savings  decimal.Decimal `json:"savings"`
}

func toMonthResponseList(months []finance.MonthSummary) []monthResponse {
	resp := make([]monthResponse, len(months))
	for i, m := range months {
		resp[i] = monthResponse{
			Month:    m.Month,
			Income:   m.Income,
			Expenses: m.Expenses,
			Balance:  m.Balance,
			Savings:  m.Savings(),
		}
	}

	return resp
}

type budgetResponse struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Used     decimal.Decimal `json:"used"`
	Percent  decimal.Decimal `json:"percent"`
	Level    finance.Level   `json:"level"`
}

func toBudgetResponseList(statuses []finance.BudgetStatus) []budgetResponse {
	resp := make([]budgetResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = budgetResponse{
			Category: s.Category,
			Limit:    s.Budget.Limit,
			Used:     s.Budget.Used,
			Percent:  s.Percent,
			Level:    s.Level,
		}
	}

	return resp
}

type filterResponse struct {
	StartDate *finance.Date `json:"start_date"`
	EndDate   *finance.Date `json:"end_date"`
	Category  string        `json:"category"`
}

func toFilterResponse(f finance.Filter) filterResponse {
	return filterResponse{
		StartDate: f.Start,
		EndDate:   f.End,
		Category:  f.Category,
	}
}

type notificationsResponse struct {
	Notifications []string `json:"notifications"`
}

type thresholdResponse struct {
	Threshold decimal.Decimal `json:"threshold"`
}

type alertResponse struct {
	Category string          `json:"category"`
	Percent  decimal.Decimal `json:"percent"`
	Message  string          `json:"message"`
	RaisedAt time.Time       `json:"raised_at"`
}

func toAlertResponseList(alerts []finance.Alert) []alertResponse {
	resp := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = alertResponse{
			Category: a.Category,
			Percent:  a.Percent,
			Message:  a.Message,
			RaisedAt: a.RaisedAt,
		}
	}

	return resp
}

type archiveResponse struct {
	ID            uuid.UUID       `json:"id"`
	Month         string          `json:"month"`
	ArchivedAt    time.Time       `json:"archived_at"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

type archiveDetailResponse struct {
	archiveResponse
	Budgets  map[string]archivedBudgetResponse `json:"budgets"`
	Income   []transactionResponse             `json:"income"`
	Expenses []transactionResponse             `json:"expenses"`
}

type archivedBudgetResponse struct {
	Limit decimal.Decimal `json:"limit"`
	Used  decimal.Decimal `json:"used"`
}

func toArchiveResponse(a finance.MonthArchive) archiveResponse {
	return archiveResponse{
		ID:            a.ID,
		Month:         a.Month,
		ArchivedAt:    a.ArchivedAt,
		TotalIncome:   a.TotalIncome,
		TotalExpenses: a.TotalExpenses,
		Balance:       a.Balance,
	}
}

func toArchiveResponseList(history []finance.MonthArchive) []archiveResponse {
	resp := make([]archiveResponse, len(history))
	for i, a := range history {
		resp[i] = toArchiveResponse(a)
	}

	return resp
}

func toArchiveDetailResponse(a finance.MonthArchive) archiveDetailResponse {
	budgets := make(map[string]archivedBudgetResponse, len(a.Budgets))
	for category, b := range a.Budgets {
		budgets[category] = archivedBudgetResponse{Limit: b.Limit, Used: b.Used}
	}

	return archiveDetailResponse{
		archiveResponse: toArchiveResponse(a),
		Budgets:         budgets,
		Income:          toResponseList(a.Income),
		Expenses:        toResponseList(a.Expenses),
	}
}
