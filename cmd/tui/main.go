package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
	rulesStore "github.com/MrJamesThe3rd/finboard/internal/rules/store"
	"github.com/MrJamesThe3rd/finboard/internal/storage"
)

type model struct {
	engine        *finance.Engine
	rulesService  *rules.Service
	importService *importer.Service
	exportService *export.Service

	currentView View
	width       int
	height      int

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	budgetsView      view.BudgetsModel
	archiveView      view.ArchiveModel
	exportView       view.ExportModel
	importView       view.ImportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewBudgets      View = 3
	ViewArchive      View = 4
	ViewExport       View = 5
	ViewImport       View = 6
)

func newModel(engine *finance.Engine, rulesSvc *rules.Service, impSvc *importer.Service, expSvc *export.Service) model {
	return model{
		engine:        engine,
		rulesService:  rulesSvc,
		importService: impSvc,
		exportService: expSvc,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewBudgets:
		var newModel tea.Model
		newModel, cmd = m.budgetsView.Update(msg)
		m.budgetsView = newModel.(view.BudgetsModel)
	case ViewArchive:
		var newModel tea.Model
		newModel, cmd = m.archiveView.Update(msg)
		m.archiveView = newModel.(view.ArchiveModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

// updateMenu rebuilds the chosen view so it always reflects the current engine state.
func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewDashboard
		m.dashboardView = view.NewDashboardModel(m.engine)

		return m, tea.Batch(m.dashboardView.Init(), m.resize)
	case "2":
		m.currentView = ViewTransactions
		m.transactionsView = view.NewTransactionsModel(m.engine, m.rulesService)

		return m, tea.Batch(m.transactionsView.Init(), m.resize)
	case "3":
		m.currentView = ViewBudgets
		m.budgetsView = view.NewBudgetsModel(m.engine)

		return m, tea.Batch(m.budgetsView.Init(), m.resize)
	case "4":
		m.currentView = ViewArchive
		m.archiveView = view.NewArchiveModel(m.engine)

		return m, tea.Batch(m.archiveView.Init(), m.resize)
	case "5":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService)

		return m, tea.Batch(m.exportView.Init(), m.resize)
	case "6":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.engine, m.importService)

		return m, tea.Batch(m.importView.Init(), m.resize)
	}

	return m, nil
}

// resize replays the last known window size so a freshly built view can lay itself out.
func (m model) resize() tea.Msg {
	if m.width == 0 {
		return nil
	}

	return tea.WindowSizeMsg{Width: m.width, Height: m.height}
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		menu := "Finboard\n\n" +
			"1. Dashboard\n" +
			"2. Transactions\n" +
			"3. Budgets & Alerts\n" +
			"4. Archive Month\n" +
			"5. Export CSV\n" +
			"6. Import CSV\n\n" +
			"q. Quit"

		if n := len(m.engine.Notifications()); n > 0 {
			menu += fmt.Sprintf("\n\n%d unread notification(s)", n)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewBudgets:
		return m.budgetsView.View()
	case ViewArchive:
		return m.archiveView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

// openLog returns the log destination. The terminal belongs to the UI, so logs go to a
// file or nowhere.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func run(cfg *config.Config) error {
	w, closeLog, err := openLog(cfg.App.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat, w)

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := finance.New(context.Background(), store,
		finance.WithLogger(logger.Component(log, "finance")),
		finance.WithSeed(cfg.Finance.SeedSampleData),
	)
	if err != nil {
		return fmt.Errorf("loading finance state: %w", err)
	}

	rulesSvc := rules.NewService(rulesStore.New(store))
	impSvc := importer.NewService(rulesSvc)
	expSvc := export.NewService(engine)

	p := tea.NewProgram(newModel(engine, rulesSvc, impSvc, expSvc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("finboard TUI failed", "error", err)
		os.Exit(1)
	}
}
