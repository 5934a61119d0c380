package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/europemission/martha/cmd/tui/internal/view"
	"github.com/europemission/martha/internal/backup"
	"github.com/europemission/martha/internal/circuit"
	circuitStore "github.com/europemission/martha/internal/circuit/store"
	"github.com/europemission/martha/internal/config"
	"github.com/europemission/martha/internal/database"
	"github.com/europemission/martha/internal/document"
	documentStore "github.com/europemission/martha/internal/document/store"
	eventStore "github.com/europemission/martha/internal/event/store"
	"github.com/europemission/martha/internal/inventory"
	inventoryStore "github.com/europemission/martha/internal/inventory/store"
	"github.com/europemission/martha/internal/report"
	"github.com/europemission/martha/internal/transaction"
	txStore "github.com/europemission/martha/internal/transaction/store"
)

type model struct {
	txService        *transaction.Service
	circuitService   *circuit.Service
	inventoryService *inventory.Service
	reportService    *report.Service
	backupService    *backup.Service

	currentView View

	entryView     view.EntryModel
	ledgerView    view.LedgerModel
	inventoryView view.InventoryModel
	reportsView   view.ReportsModel
	backupView    view.BackupModel
}

type View int

const (
	ViewMenu      View = 0
	ViewEntry     View = 1
	ViewLedger    View = 2
	ViewInventory View = 3
	ViewReports   View = 4
	ViewBackup    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	txRepo := txStore.New(db)
	circuitRepo := circuitStore.New(db)
	inventoryRepo := inventoryStore.New(db)
	eventRepo := eventStore.New(db)
	documentRepo := documentStore.New(db)

	txSvc := transaction.NewService(txRepo)
	circuitSvc := circuit.NewService(circuitRepo)
	inventorySvc := inventory.NewService(inventoryRepo)
	documentSvc := document.NewService(documentRepo)

	reportSvc := report.NewService(
		txSvc,
		circuitSvc,
		documentSvc,
		report.NewBuilder(cfg.Org.Name, cfg.Org.Currency),
		slog.Default(),
	)
	backupSvc := backup.NewService(txRepo, circuitRepo, inventoryRepo, eventRepo, documentRepo, slog.Default())

	return model{
		txService:        txSvc,
		circuitService:   circuitSvc,
		inventoryService: inventorySvc,
		reportService:    reportSvc,
		backupService:    backupSvc,
		currentView:      ViewMenu,
		entryView:        view.NewEntryModel(txSvc, circuitSvc),
		ledgerView:       view.NewLedgerModel(txSvc, circuitSvc),
		inventoryView:    view.NewInventoryModel(inventorySvc),
		reportsView:      view.NewReportsModel(reportSvc),
		backupView:       view.NewBackupModel(backupSvc),
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
				m.currentView = ViewEntry
				m.entryView = view.NewEntryModel(m.txService, m.circuitService)

				return m, m.entryView.Init()
			case "2":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.txService, m.circuitService)

				return m, m.ledgerView.Init()
			case "3":
				m.currentView = ViewInventory
				m.inventoryView = view.NewInventoryModel(m.inventoryService)

				return m, m.inventoryView.Init()
			case "4":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.reportService)

				return m, m.reportsView.Init()
			case "5":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.backupService)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewEntry:
		var newModel tea.Model
		newModel, cmd = m.entryView.Update(msg)
		m.entryView = newModel.(view.EntryModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewInventory:
		var newModel tea.Model
		newModel, cmd = m.inventoryView.Update(msg)
		m.inventoryView = newModel.(view.InventoryModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Martha\n\n" +
				"1. New Transaction\n" +
				"2. Ledger\n" +
				"3. Inventory\n" +
				"4. Quarterly Reports\n" +
				"5. Backup & Restore\n\n" +
				"q. Quit",
		)
	case ViewEntry:
		return m.entryView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewInventory:
		return m.inventoryView.View()
	case ViewReports:
		return m.reportsView.View()
	case ViewBackup:
		return m.backupView.View()
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
