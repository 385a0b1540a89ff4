package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

type archiveState int

const (
	archiveStateConfirm archiveState = iota
	archiveStateResult
)

// ArchiveModel snapshots the current month into history after a confirmation.
type ArchiveModel struct {
	CommonModel
	engine *finance.Engine

	state   archiveState
	form    *huh.Form
	archive finance.MonthArchive
}

func NewArchiveModel(engine *finance.Engine) ArchiveModel {
	confirm := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Archive the current month?").
				Description("Totals, budgets and transactions are copied into history.").
				Affirmative("Archive").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithShowHelp(false)

	return ArchiveModel{engine: engine, form: form}
}

func (m ArchiveModel) Title() string { return "Archive Month" }

func (m ArchiveModel) ShortHelp() string { return "Esc: back" }

func (m ArchiveModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ArchiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case archiveResultMsg:
		m.state = archiveStateResult
		m.archive = msg.archive

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.state != archiveStateConfirm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m, Back
	}

	return m, m.archiveCmd()
}

func (m ArchiveModel) View() string {
	if m.state == archiveStateConfirm {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	a := m.archive

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		okStyle.Bold(true).Render(fmt.Sprintf("Archived %s", a.Month)),
		faintStyle.Render(humanize.Time(a.ArchivedAt)),
		"",
		fmt.Sprintf("Income:   %s", FormatAmount(a.TotalIncome)),
		fmt.Sprintf("Expenses: %s", FormatAmount(a.TotalExpenses)),
		fmt.Sprintf("Balance:  %s", FormatAmount(a.Balance)),
		faintStyle.Render(fmt.Sprintf("%d month(s) in history", len(m.engine.History()))),
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

type archiveResultMsg struct {
	archive finance.MonthArchive
}

func (m ArchiveModel) archiveCmd() tea.Cmd {
	engine := m.engine

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return archiveResultMsg{archive: engine.ArchiveCurrentMonth(ctx)}
	}
}
