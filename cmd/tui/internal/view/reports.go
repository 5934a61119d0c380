package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/report"
)

type reportsState int

const (
	reportsStatePicker reportsState = iota
	reportsStateSummary
)

// ReportsModel builds quarterly reports and exports them to ./exports.
type ReportsModel struct {
	CommonModel
	svc *report.Service

	state  reportsState
	picker QuarterPicker
	data   *report.ReportData

	exportDir string
	loading   bool
	err       error
	status    string
}

func NewReportsModel(svc *report.Service) ReportsModel {
	return ReportsModel{
		svc:       svc,
		state:     reportsStatePicker,
		picker:    NewQuarterPicker(),
		exportDir: "./exports",
	}
}

func (m ReportsModel) Title() string { return "Quarterly Reports" }

func (m ReportsModel) ShortHelp() string {
	if m.state == reportsStateSummary {
		return "Esc: back | p: export PDF | w: export Word | c: export CSV"
	}

	return "Esc: back | Enter: build report"
}

type reportBuiltMsg struct {
	data *report.ReportData
	err  error
}

type reportExportedMsg struct {
	path string
	err  error
}

func (m ReportsModel) Init() tea.Cmd {
	return nil
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuarterSelectedMsg:
		m.loading = true
		return m, m.buildCmd(msg.Quarter, msg.Year)

	case reportBuiltMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.data = msg.data
		m.state = reportsStateSummary

		return m, nil

	case reportExportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Exported to %s", msg.path)
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case reportsStatePicker:
			if keyMsg.Type == tea.KeyEsc {
				return m, Back
			}
		case reportsStateSummary:
			switch keyMsg.String() {
			case "esc":
				m.state = reportsStatePicker
				m.data = nil
				m.status = ""

				return m, nil
			case "p":
				return m, m.exportCmd(report.FormatPDF)
			case "w":
				return m, m.exportCmd(report.FormatDocx)
			case "c":
				return m, m.exportCmd(report.FormatCSV)
			}

			return m, nil
		}
	}

	if m.state == reportsStatePicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReportsModel) buildCmd(q period.Quarter, year int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		data, err := m.svc.BuildQuarterly(ctx, q, year)

		return reportBuiltMsg{data: data, err: err}
	}
}

func (m ReportsModel) exportCmd(format report.Format) tea.Cmd {
	q, year := m.data.Quarter, m.data.Year
	dir := m.exportDir

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return reportExportedMsg{err: err}
		}

		path := filepath.Join(dir, fmt.Sprintf("report-%s-%d.%s", q, year, format.Extension()))

		f, err := os.Create(path)
		if err != nil {
			return reportExportedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Export(ctx, f, format, q, year); err != nil {
			return reportExportedMsg{err: err}
		}

		return reportExportedMsg{path: path}
	}
}

func (m ReportsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Building report...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == reportsStatePicker {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(m.summaryView())
}

func (m ReportsModel) summaryView() string {
	data := m.data
	sym := data.CurrencySymbol

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).
		Render(fmt.Sprintf("%s — %s %d (%s)", data.Organization, data.Quarter, data.Year, data.QuarterLabel))
	b.WriteString(title + "\n\n")

	fmt.Fprintf(&b, "Receipts:  %s%s  (%d)\n", sym, FormatAmount(data.TotalReceipts), data.ReceiptCount)
	fmt.Fprintf(&b, "Payments:  %s%s  (%d)\n", sym, FormatAmount(data.TotalPayments), data.PaymentCount)
	fmt.Fprintf(&b, "Net:       %s%s  (%s)\n\n", sym, FormatAmount(data.NetBalance), data.Advanced.SurplusDeficit)

	if len(data.ReceiptsByCategory) > 0 {
		b.WriteString("Top receipt categories:\n")
		for _, c := range data.Advanced.TopReceiptCategories {
			fmt.Fprintf(&b, "  %-28s %s%s (%.1f%%)\n", c.Label, sym, FormatAmount(c.Amount), c.Percentage)
		}
		b.WriteString("\n")
	}

	if len(data.PaymentsByCategory) > 0 {
		b.WriteString("Top payment categories:\n")
		for _, c := range data.Advanced.TopPaymentCategories {
			fmt.Fprintf(&b, "  %-28s %s%s (%.1f%%)\n", c.Label, sym, FormatAmount(c.Amount), c.Percentage)
		}
		b.WriteString("\n")
	}

	for _, month := range data.MonthlyBreakdown {
		fmt.Fprintf(&b, "%-12s receipts %s%s, payments %s%s (%d txns)\n",
			month.Month, sym, FormatAmount(month.Receipts), sym, FormatAmount(month.Payments), month.Count)
	}

	fmt.Fprintf(&b, "\nMedian: %s%s   Avg: %s%s   Growth vs prev: %s\n",
		sym, FormatAmount(data.Advanced.MedianTransaction),
		sym, FormatAmount(data.Advanced.AvgTransactionSize),
		reportGrowthLabel(data.Advanced.ReceiptGrowthVsPrevQ),
	)

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return b.String()
}

func reportGrowthLabel(g *float64) string {
	if g == nil {
		return "N/A"
	}

	return fmt.Sprintf("%+.1f%%", *g)
}
