package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

type budgetState int

const (
	budgetStateTable budgetState = iota
	budgetStateLimit
	budgetStateThreshold
)

var hundred = decimal.NewFromInt(100)

type BudgetsModel struct {
	CommonModel
	engine *finance.Engine

	state    budgetState
	table    table.Model
	form     *huh.Form
	category string
	status   string
}

func NewBudgetsModel(engine *finance.Engine) BudgetsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 16},
			{Title: "Used", Width: 12},
			{Title: "Limit", Width: 12},
			{Title: "%", Width: 5},
			{Title: "Level", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := BudgetsModel{engine: engine, table: t}
	m.refreshRows()

	return m
}

func (m BudgetsModel) Title() string { return "Budgets" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetStateTable {
		return "Esc: back | Enter: edit limit | t: alert threshold | e: evaluate alerts | x: clear notifications"
	}

	return "Esc: cancel | Enter: confirm"
}

func (m BudgetsModel) Init() tea.Cmd {
	return nil
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetResultMsg:
		m.state = budgetStateTable
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.refreshRows()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state != budgetStateTable {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m.startLimit()
		case "t":
			return m.startThreshold()
		case "e":
			return m, m.evaluateCmd()
		case "x":
			return m, m.clearCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetsModel) startLimit() (tea.Model, tea.Cmd) {
	row := m.table.SelectedRow()
	if row == nil {
		return m, nil
	}

	m.category = row[0]
	limit := row[2]

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("limit").
				Title(fmt.Sprintf("Monthly limit for %s", m.category)).
				Value(&limit).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = budgetStateLimit

	return m, m.form.Init()
}

func (m BudgetsModel) startThreshold() (tea.Model, tea.Cmd) {
	current := m.engine.AlertThreshold().Mul(hundred).String()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("threshold").
				Title("Alert threshold (%)").
				Description("Alert when a budget's usage exceeds this share of its limit").
				Value(&current).
				Validate(func(s string) error {
					_, err := parsePercent(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = budgetStateThreshold

	return m, m.form.Init()
}

// parsePercent converts a percentage in (0, 100] to a ratio.
func parsePercent(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percentage")
	}

	if !d.IsPositive() || d.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("percentage must be between 0 and 100")
	}

	return d.Div(hundred), nil
}

func (m BudgetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetStateTable
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == budgetStateThreshold {
		return m, m.thresholdCmd(m.form.GetString("threshold"))
	}

	return m, m.limitCmd(m.category, m.form.GetString("limit"))
}

func (m BudgetsModel) View() string {
	if m.state != budgetStateTable && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	threshold := fmt.Sprintf("Alert threshold: %s%%", m.engine.AlertThreshold().Mul(hundred).String())

	notes := m.engine.Notifications()
	lines := []string{titleStyle.Render("Budgets"), m.table.View(), faintStyle.Render(threshold)}

	if len(notes) > 0 {
		lines = append(lines, "", "Notifications:")
		for _, n := range notes {
			lines = append(lines, warnStyle.Render("! "+n))
		}
	}

	if m.status != "" {
		lines = append(lines, "", faintStyle.Render(m.status))
	}

	lines = append(lines, "", faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *BudgetsModel) refreshRows() {
	statuses := m.engine.BudgetStatuses()

	rows := make([]table.Row, len(statuses))
	for i, s := range statuses {
		rows[i] = table.Row{
			s.Category,
			FormatAmount(s.Budget.Used),
			FormatAmount(s.Budget.Limit),
			s.Percent.String(),
			string(s.Level),
		}
	}

	m.table.SetRows(rows)
}

// Messages

type budgetResultMsg struct {
	status string
	err    error
}

func (m BudgetsModel) limitCmd(category, value string) tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		limit, err := ParseAmount(value)
		if err != nil {
			return budgetResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := engine.UpdateBudgetLimit(ctx, category, limit); err != nil {
			return budgetResultMsg{err: err}
		}

		return budgetResultMsg{status: fmt.Sprintf("Limit for %s set to %s.", category, FormatAmount(limit))}
	}
}

func (m BudgetsModel) thresholdCmd(value string) tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		ratio, err := parsePercent(value)
		if err != nil {
			return budgetResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		if err := engine.SetAlertThreshold(ctx, ratio); err != nil {
			return budgetResultMsg{err: err}
		}

		return budgetResultMsg{status: "Alert threshold updated."}
	}
}

func (m BudgetsModel) evaluateCmd() tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		alerts := engine.EvaluateBudgetAlerts(ctx)

		return budgetResultMsg{status: fmt.Sprintf("%d new alert(s).", len(alerts))}
	}
}

func (m BudgetsModel) clearCmd() tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		engine.ClearNotifications(ctx)

		return budgetResultMsg{status: "Notifications cleared."}
	}
}
