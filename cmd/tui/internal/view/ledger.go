package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateConfirmDelete
)

// LedgerModel lists recorded transactions with quarter and type filters.
type LedgerModel struct {
	CommonModel
	txService      *transaction.Service
	circuitService *circuit.Service

	state        ledgerState
	table        table.Model
	txs          []*transaction.Transaction
	circuitNames map[string]string

	// Filter cycling
	typeFilterIdx    int
	quarterFilterIdx int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewLedgerModel(txSvc *transaction.Service, circuitSvc *circuit.Service) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 22},
		{Title: "Amount", Width: 12},
		{Title: "Circuit", Width: 18},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		txService:      txSvc,
		circuitService: circuitSvc,
		table:          t,
		filter:         transaction.ListFilter{},
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	if m.state == ledgerStateConfirmDelete {
		return "y: delete | n: cancel"
	}

	return "Esc: back | t: type filter | f: quarter filter | x: delete | r: refresh"
}

type loadLedgerMsg struct {
	txs      []*transaction.Transaction
	circuits []*circuit.Circuit
	err      error
}

type ledgerDeleteMsg struct {
	err error
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m LedgerModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		circuits, err := m.circuitService.List(ctx)

		return loadLedgerMsg{txs: txs, circuits: circuits, err: err}
	}
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.txs = msg.txs

		m.circuitNames = make(map[string]string, len(msg.circuits))
		for _, c := range msg.circuits {
			m.circuitNames[c.ID.String()] = c.Name
		}

		m.refreshTable()

		return m, nil

	case ledgerDeleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Transaction deleted."
		}

		m.state = ledgerStateBrowse

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	case ledgerStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "f":
			m.quarterFilterIdx = (m.quarterFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "x":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.txs) {
				m.state = ledgerStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.txs) {
			m.state = ledgerStateBrowse
			return m, nil
		}

		id := m.txs[idx].ID

		return m, func() tea.Msg {
			ctx, cancel := DbCtx()
			defer cancel()

			return ledgerDeleteMsg{err: m.txService.Delete(ctx, id)}
		}
	case "n", "esc":
		m.state = ledgerStateBrowse
		return m, nil
	}

	return m, nil
}

func (m *LedgerModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeReceipt)
	case 2:
		m.filter.Type = new(transaction.TypePayment)
	default:
		m.filter.Type = nil
	}

	switch m.quarterFilterIdx {
	case 1:
		q, year := period.Current()
		m.filter.Quarter = &q
		m.filter.Year = &year
	case 2:
		q, year := period.Current()
		prevQ, prevYear := period.Previous(q, year)
		m.filter.Quarter = &prevQ
		m.filter.Year = &prevYear
	default:
		m.filter.Quarter = nil
		m.filter.Year = nil
	}
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		circuitName := ""

		if tx.CircuitID != nil {
			name, ok := m.circuitNames[tx.CircuitID.String()]
			if !ok {
				name = "Unknown"
			}

			circuitName = name
		}

		amount := FormatAmount(tx.Amount)
		if tx.Type == transaction.TypePayment {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			tx.Category.Label(),
			amount,
			circuitName,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Receipts", "Payments"}
	quarterLabels := []string{"All Time", "This Quarter", "Last Quarter"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [f] Period: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(quarterLabels[m.quarterFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == ledgerStateConfirmDelete {
		idx := m.table.Cursor()
		desc := ""
		if idx >= 0 && idx < len(m.txs) {
			desc = m.txs[idx].Description
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Delete %q? (y/n)", desc))

		content = lipgloss.JoinVertical(lipgloss.Left, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
