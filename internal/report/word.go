package report

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"
)

const docxHeaderColor = "1F3A5F"

// RenderDocx writes the quarterly report as a Word document.
func RenderDocx(w io.Writer, data *ReportData) error {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText(data.Organization).Size("32").Bold().Color(docxHeaderColor)

	subtitle := doc.AddParagraph().Justification("center")
	subtitle.AddText(fmt.Sprintf("Quarterly Financial Report — %s %d (%s)", data.Quarter, data.Year, data.QuarterLabel)).Size("22")

	doc.AddParagraph()

	docxSummary(doc, data)
	docxCategoryTables(doc, data)
	docxCircuitTable(doc, data)
	docxMonthlyTable(doc, data)
	docxAdvanced(doc, data)

	footer := doc.AddParagraph().Justification("center")
	footer.AddText(fmt.Sprintf("Generated %s", formatDate(data.GeneratedAt))).Size("16").Color("808080")

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing docx: %w", err)
	}

	return nil
}

func docxSectionTitle(doc *docx.Docx, title string) {
	p := doc.AddParagraph()
	p.AddText(title).Size("26").Bold().Color(docxHeaderColor)
}

func docxTable(doc *docx.Docx, header []string, rows [][]string) {
	tbl := doc.AddTable(len(rows)+1, len(header), 0, nil)

	for j, title := range header {
		tbl.TableRows[0].TableCells[j].AddParagraph().AddText(title).Bold()
	}

	for i, row := range rows {
		for j, cell := range row {
			tbl.TableRows[i+1].TableCells[j].AddParagraph().AddText(cell)
		}
	}

	doc.AddParagraph()
}

func docxSummary(doc *docx.Docx, data *ReportData) {
	docxSectionTitle(doc, "Executive Summary")

	sym := data.CurrencySymbol
	docxTable(doc, []string{"", ""}, [][]string{
		{"Total Receipts", money(sym, data.TotalReceipts)},
		{"Total Payments", money(sym, data.TotalPayments)},
		{"Net Balance", money(sym, data.NetBalance)},
		{"Transactions", fmt.Sprintf("%d (%d receipts, %d payments)", data.TotalTransactions, data.ReceiptCount, data.PaymentCount)},
		{"Position", string(data.Advanced.SurplusDeficit)},
	})
}

func docxCategoryTables(doc *docx.Docx, data *ReportData) {
	sym := data.CurrencySymbol

	for _, section := range []struct {
		title string
		rows  []CategoryBreakdown
	}{
		{"Receipts by Category", data.ReceiptsByCategory},
		{"Payments by Category", data.PaymentsByCategory},
	} {
		docxSectionTitle(doc, section.title)

		if len(section.rows) == 0 {
			doc.AddParagraph().AddText("None recorded this quarter.").Italic()
			continue
		}

		rows := make([][]string, 0, len(section.rows))
		for _, row := range section.rows {
			rows = append(rows, []string{
				row.Label,
				money(sym, row.Amount),
				fmt.Sprintf("%d", row.Count),
				percent(row.Percentage),
			})
		}

		docxTable(doc, []string{"Category", "Amount", "Count", "Share"}, rows)
	}
}

func docxCircuitTable(doc *docx.Docx, data *ReportData) {
	docxSectionTitle(doc, "Circuit Breakdown")

	if len(data.CircuitBreakdown) == 0 {
		doc.AddParagraph().AddText("No circuit activity this quarter.").Italic()
		return
	}

	sym := data.CurrencySymbol

	rows := make([][]string, 0, len(data.CircuitBreakdown))
	for _, row := range data.CircuitBreakdown {
		rows = append(rows, []string{
			row.Name,
			money(sym, row.Receipts),
			money(sym, row.Payments),
			money(sym, row.Net),
			fmt.Sprintf("%d", row.Count),
		})
	}

	docxTable(doc, []string{"Circuit", "Receipts", "Payments", "Net", "Txns"}, rows)
}

func docxMonthlyTable(doc *docx.Docx, data *ReportData) {
	docxSectionTitle(doc, "Monthly Breakdown")

	sym := data.CurrencySymbol

	rows := make([][]string, 0, len(data.MonthlyBreakdown))
	for _, row := range data.MonthlyBreakdown {
		rows = append(rows, []string{
			row.Month,
			money(sym, row.Receipts),
			money(sym, row.Payments),
			money(sym, row.Net),
			fmt.Sprintf("%d", row.Count),
		})
	}

	docxTable(doc, []string{"Month", "Receipts", "Payments", "Net", "Txns"}, rows)
}

func docxAdvanced(doc *docx.Docx, data *ReportData) {
	docxSectionTitle(doc, "Statistics")

	sym := data.CurrencySymbol
	adv := data.Advanced

	rows := [][]string{
		{"Average Transaction", money(sym, adv.AvgTransactionSize)},
		{"Average Receipt", money(sym, adv.AvgReceiptSize)},
		{"Average Payment", money(sym, adv.AvgPaymentSize)},
		{"Median Transaction", money(sym, adv.MedianTransaction)},
		{"Operating Ratio", fmt.Sprintf("%.2f", adv.OperatingRatio)},
		{"Busiest Month", adv.BusiestMonth},
		{"Quietest Month", adv.QuietestMonth},
		{"Receipt Growth vs Prev Quarter", growthLabel(adv.ReceiptGrowthVsPrevQ)},
		{"Payment Growth vs Prev Quarter", growthLabel(adv.PaymentGrowthVsPrevQ)},
		{"Balance Growth vs Prev Quarter", growthLabel(adv.BalanceGrowthVsPrevQ)},
	}

	if adv.LargestReceipt != nil {
		rows = append(rows, []string{"Largest Receipt", fmt.Sprintf("%s (%s)", money(sym, adv.LargestReceipt.Amount), adv.LargestReceipt.Description)})
	}

	if adv.LargestPayment != nil {
		rows = append(rows, []string{"Largest Payment", fmt.Sprintf("%s (%s)", money(sym, adv.LargestPayment.Amount), adv.LargestPayment.Description)})
	}

	docxTable(doc, []string{"", ""}, rows)
}
