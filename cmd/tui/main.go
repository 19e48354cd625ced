package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/avandenberg/tally/cmd/tui/internal/view"
	"github.com/avandenberg/tally/internal/config"
	"github.com/avandenberg/tally/internal/database"
	"github.com/avandenberg/tally/internal/ledger"
	ledgerStore "github.com/avandenberg/tally/internal/ledger/store"
	"github.com/avandenberg/tally/internal/recon"
	"github.com/avandenberg/tally/internal/report"
)

type model struct {
	ledgerService *ledger.Service
	reportService *report.Service
	engine        *recon.Engine
	reconDefaults recon.Config

	currentView View

	datasetsView   view.DatasetsModel
	reconcileView  view.ReconcileModel
	exceptionsView view.ExceptionsModel
}

type View int

const (
	ViewMenu       View = 0
	ViewDatasets   View = 1
	ViewReconcile  View = 2
	ViewExceptions View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := ledgerStore.New(db)
	if err := store.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(store)
	reportSvc := report.NewService(ledgerSvc)
	engine := recon.New()

	return model{
		ledgerService:  ledgerSvc,
		reportService:  reportSvc,
		engine:         engine,
		reconDefaults:  cfg.ReconDefaults(),
		currentView:    ViewMenu,
		datasetsView:   view.NewDatasetsModel(ledgerSvc),
		reconcileView:  view.NewReconcileModel(engine, ledgerSvc, cfg.ReconDefaults()),
		exceptionsView: view.NewExceptionsModel(reportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDatasets
				m.datasetsView = view.NewDatasetsModel(m.ledgerService)

				return m, m.datasetsView.Init()
			case "2":
				m.currentView = ViewReconcile
				m.reconcileView = view.NewReconcileModel(m.engine, m.ledgerService, m.reconDefaults)

				return m, m.reconcileView.Init()
			case "3":
				m.currentView = ViewExceptions
				m.exceptionsView = view.NewExceptionsModel(m.reportService)

				return m, m.exceptionsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDatasets:
		var newModel tea.Model
		newModel, cmd = m.datasetsView.Update(msg)
		m.datasetsView = newModel.(view.DatasetsModel)
	case ViewReconcile:
		var newModel tea.Model
		newModel, cmd = m.reconcileView.Update(msg)
		m.reconcileView = newModel.(view.ReconcileModel)
	case ViewExceptions:
		var newModel tea.Model
		newModel, cmd = m.exceptionsView.Update(msg)
		m.exceptionsView = newModel.(view.ExceptionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally TUI\n\n" +
				"1. Browse Datasets\n" +
				"2. Run Reconciliation\n" +
				"3. Review Exceptions\n\n" +
				"q. Quit",
		)
	case ViewDatasets:
		return m.datasetsView.View()
	case ViewReconcile:
		return m.reconcileView.View()
	case ViewExceptions:
		return m.exceptionsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
