package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
)

type txState int

const (
	txStateList txState = iota
	txStateTimeframe
	txStateCategory
	txStateAdding
	txStateDeleting
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx finance.Transaction
}

func (i txItem) Title() string {
	amount := okStyle.Render("+" + FormatAmount(i.tx.Amount))
	if i.tx.Kind == finance.KindExpense {
		amount = errorStyle.Render("-" + FormatAmount(i.tx.Amount))
	}

	return fmt.Sprintf("%s  %s  %s", FormatDate(i.tx.Date), amount, i.tx.Label)
}

func (i txItem) Description() string {
	return fmt.Sprintf("#%d  %s  %s", i.tx.ID, i.tx.Kind, i.tx.Category)
}

func (i txItem) FilterValue() string {
	return i.tx.Label + " " + i.tx.Category
}

type TransactionsModel struct {
	CommonModel
	engine       *finance.Engine
	rulesService *rules.Service

	state           txState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	selectedTx      *finance.Transaction

	status string
}

func NewTransactionsModel(engine *finance.Engine, rulesSvc *rules.Service) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 80, 20)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := TransactionsModel{
		engine:          engine,
		rulesService:    rulesSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		list:            l,
	}
	m.refreshListItems()

	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateList:
		return "Esc: back | a: add | d: delete | t: timeframe | c: category | /: search"
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateCategory, txStateAdding, txStateDeleting:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		f := m.engine.Filter()
		f.Start, f.End = nil, nil

		if !msg.All {
			f.Start, f.End = &msg.Start, &msg.End
		}

		return m.applyFilter(f)

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		m.refreshListItems()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateCategory, txStateAdding, txStateDeleting:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) applyFilter(f finance.Filter) (tea.Model, tea.Cmd) {
	m.state = txStateList
	m.timeframePicker.Reset()

	if err := m.engine.SetFilter(f); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	m.status = filterSummary(m.engine.Filter())
	m.refreshListItems()

	return m, nil
}

func filterSummary(f finance.Filter) string {
	period := "all dates"
	if f.Start != nil && f.End != nil {
		period = fmt.Sprintf("%s to %s", f.Start, f.End)
	}

	return fmt.Sprintf("Showing %s, category %s.", period, f.Category)
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			m.state = txStateList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.startAdding()
		case "d":
			return m.startDeleting()
		case "t":
			m.state = txStateTimeframe
			return m, nil
		case "c":
			return m.startCategory()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	kind := finance.KindExpense
	date := FormatDate(finance.DateOf(time.Now()))

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[finance.Kind]().
				Key("kind").
				Title("Type").
				Options(
					huh.NewOption("Expense", finance.KindExpense),
					huh.NewOption("Income", finance.KindIncome),
				).
				Value(&kind),

			huh.NewInput().
				Key("label").
				Title("Description / Source").
				Validate(notBlank("description")),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Description("Leave empty to use a learned rule"),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&date).
				Validate(func(s string) error {
					_, err := finance.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding

	return m, m.form.Init()
}

func (m TransactionsModel) startDeleting() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedTx = &selected.tx

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s %q?", selected.tx.Kind, selected.tx.Label)).
				Affirmative("Delete").
				Negative("Cancel"),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateDeleting

	return m, m.form.Init()
}

func (m TransactionsModel) startCategory() (tea.Model, tea.Cmd) {
	current := m.engine.Filter().Category

	options := []huh.Option[string]{huh.NewOption("All categories", finance.CategoryAll)}
	for _, c := range m.engine.Categories() {
		options = append(options, huh.NewOption(c, c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Show category").
				Options(options...).
				Value(&current),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateCategory

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
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

	switch m.state {
	case txStateCategory:
		f := m.engine.Filter()
		f.Category = m.form.GetString("category")

		return m.applyFilter(f)
	case txStateDeleting:
		if !m.form.GetBool("confirm") {
			m.state = txStateList
			m.form = nil

			return m, nil
		}

		return m, m.deleteTxCmd(*m.selectedTx)
	}

	kind, _ := m.form.Get("kind").(finance.Kind)

	return m, m.addTxCmd(kind, m.form.GetString("label"), m.form.GetString("amount"),
		m.form.GetString("category"), m.form.GetString("date"))
}

func (m TransactionsModel) View() string {
	statusLine := ""
	if m.status != "" {
		statusLine = faintStyle.Render(m.status) + "\n"
	}

	switch m.state {
	case txStateList:
		return lipgloss.NewStyle().Padding(1).Render(
			m.totalsView() + "\n" + statusLine + m.list.View() + "\n" + faintStyle.Render(m.ShortHelp()),
		)
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case txStateCategory, txStateAdding, txStateDeleting:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	return ""
}

// totalsView always shows the unfiltered totals.
func (m TransactionsModel) totalsView() string {
	s := m.engine.Summary()

	return boxStyle.Render(fmt.Sprintf(
		"Income: %s  |  Expenses: %s  |  Balance: %s",
		FormatAmount(s.TotalIncome),
		FormatAmount(s.TotalExpenses),
		FormatAmount(s.Balance),
	))
}

func (m *TransactionsModel) refreshListItems() {
	income := m.engine.FilteredIncome()
	expenses := m.engine.FilteredExpenses()

	items := make([]list.Item, 0, len(income)+len(expenses))
	for _, tx := range income {
		items = append(items, txItem{tx: tx})
	}

	for _, tx := range expenses {
		items = append(items, txItem{tx: tx})
	}

	m.list.SetItems(items)
}

// Messages

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) addTxCmd(kind finance.Kind, label, amountStr, category, dateStr string) tea.Cmd {
	engine := m.engine
	rulesSvc := m.rulesService
	category = strings.TrimSpace(category)
	dateStr = strings.TrimSpace(dateStr)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		amount, err := ParseAmount(amountStr)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		date, err := finance.ParseDate(dateStr)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		if category == "" && rulesSvc != nil {
			category, err = rulesSvc.Suggest(ctx, label)
			if err != nil {
				return saveTxResultMsg{err: err}
			}
		}

		params := finance.CreateParams{Label: label, Amount: amount, Category: category, Date: date}

		add := engine.AddExpense
		if kind == finance.KindIncome {
			add = engine.AddIncome
		}

		tx, err := add(ctx, params)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Added %s #%d.", tx.Kind, tx.ID)}
	}
}

func (m TransactionsModel) deleteTxCmd(tx finance.Transaction) tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		remove := engine.DeleteExpense
		if tx.Kind == finance.KindIncome {
			remove = engine.DeleteIncome
		}

		if err := remove(ctx, tx.ID); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: fmt.Sprintf("Deleted %s #%d.", tx.Kind, tx.ID)}
	}
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = titleStyle.Render("> ") + title
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
