package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

const (
	barWidth   = 30
	trendWidth = 24
)

// DashboardModel shows the headline metrics, budget usage, the six month trend and the
// pending notifications.
type DashboardModel struct {
	CommonModel
	engine *finance.Engine
}

func NewDashboardModel(engine *finance.Engine) DashboardModel {
	return DashboardModel{engine: engine}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back" }

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}

	return m, nil
}

func (m DashboardModel) View() string {
	sections := []string{
		titleStyle.Render("Finboard"),
		m.metricsView(),
		m.budgetsView(),
		m.trendView(),
		m.notificationsView(),
	}

	if history := m.engine.History(); len(history) > 0 {
		last := history[len(history)-1]
		sections = append(sections, faintStyle.Render(fmt.Sprintf("Last archived %s, %s. %d month(s) in history.",
			last.Month, humanize.Time(last.ArchivedAt), len(history))))
	}

	if m.engine.Degraded() {
		sections = append(sections, warnStyle.Render("Storage unavailable: changes are kept in memory only."))
	}

	sections = append(sections, faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m DashboardModel) metricsView() string {
	s := m.engine.Summary()

	balance := okStyle
	if s.Balance.IsNegative() {
		balance = errorStyle
	}

	cards := []string{
		boxStyle.Render("Balance\n" + balance.Render(FormatAmount(s.Balance))),
		boxStyle.Render("Income\n" + okStyle.Render(FormatAmount(s.TotalIncome))),
		boxStyle.Render("Expenses\n" + errorStyle.Render(FormatAmount(s.TotalExpenses))),
		boxStyle.Render("Savings rate\n" + s.SavingsRate.StringFixed(1) + "%"),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m DashboardModel) budgetsView() string {
	statuses := m.engine.BudgetStatuses()
	if len(statuses) == 0 {
		return boxStyle.Render("Budgets\n" + faintStyle.Render("No budgets yet."))
	}

	var b strings.Builder

	b.WriteString("Budgets\n")

	for _, s := range statuses {
		fmt.Fprintf(&b, "%-14s %s %4s%%  %s / %s\n",
			s.Category,
			levelStyle(s.Level).Render(bar(s.Percent, barWidth)),
			s.Percent.String(),
			FormatAmount(s.Budget.Used),
			FormatAmount(s.Budget.Limit),
		)
	}

	return boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m DashboardModel) trendView() string {
	months := m.engine.LastSixMonths()

	peak := decimal.Zero
	for _, mo := range months {
		peak = decimal.Max(peak, mo.Income, mo.Expenses)
	}

	var b strings.Builder

	b.WriteString("Last six months (income / expenses / savings)\n")

	for _, mo := range months {
		fmt.Fprintf(&b, "%-4s %s %s\n     %s %s\n     savings %s\n",
			mo.Month,
			okStyle.Render(scaled(mo.Income, peak)), FormatAmount(mo.Income),
			errorStyle.Render(scaled(mo.Expenses, peak)), FormatAmount(mo.Expenses),
			FormatAmount(mo.Savings()),
		)
	}

	return boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m DashboardModel) notificationsView() string {
	notes := m.engine.Notifications()
	if len(notes) == 0 {
		return boxStyle.Render("Notifications\n" + faintStyle.Render("None."))
	}

	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = warnStyle.Render("! " + n)
	}

	return boxStyle.Render("Notifications\n" + strings.Join(lines, "\n"))
}

func levelStyle(l finance.Level) lipgloss.Style {
	switch l {
	case finance.LevelOK:
		return okStyle
	case finance.LevelWarning:
		return warnStyle
	default:
		return errorStyle
	}
}

// bar draws a progress bar for percent, capped at full.
func bar(percent decimal.Decimal, width int) string {
	filled := int(percent.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	filled = max(0, min(filled, width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func scaled(v, peak decimal.Decimal) string {
	if !peak.IsPositive() {
		return strings.Repeat(" ", trendWidth)
	}

	n := int(v.Mul(decimal.NewFromInt(trendWidth)).Div(peak).IntPart())
	n = max(0, min(n, trendWidth))

	return strings.Repeat("▇", n) + strings.Repeat(" ", trendWidth-n)
}
