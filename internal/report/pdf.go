package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 15.0
	pdfLineH     = 6.0
	pdfTableLine = 7.0
)

// RenderPDF writes the quarterly report as an A4 PDF document.
func RenderPDF(w io.Writer, data *ReportData) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	// Core fonts are cp1252; the translator maps the currency symbol.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6,
			tr(fmt.Sprintf("%s · Generated %s · Page %d", data.Organization, formatDate(data.GeneratedAt), pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdfHeader(pdf, tr, data)
	pdfSummary(pdf, tr, data)
	pdfCategoryTables(pdf, tr, data)
	pdfCircuitTable(pdf, tr, data)
	pdfMonthlyTable(pdf, tr, data)
	pdfAdvanced(pdf, tr, data)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

func pdfHeader(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdf.SetFillColor(31, 58, 95)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr(data.Organization), "", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8,
		tr(fmt.Sprintf("Quarterly Financial Report — %s %d (%s)", data.Quarter, data.Year, data.QuarterLabel)),
		"", 1, "C", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

func pdfSectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(31, 58, 95)
	pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func pdfSummary(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdfSectionTitle(pdf, tr, "Executive Summary")

	sym := data.CurrencySymbol
	rows := [][2]string{
		{"Total Receipts", money(sym, data.TotalReceipts)},
		{"Total Payments", money(sym, data.TotalPayments)},
		{"Net Balance", money(sym, data.NetBalance)},
		{"Transactions", fmt.Sprintf("%d (%d receipts, %d payments)", data.TotalTransactions, data.ReceiptCount, data.PaymentCount)},
		{"Position", string(data.Advanced.SurplusDeficit)},
	}

	pdf.SetFont("Helvetica", "", 10)

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, pdfLineH, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, pdfLineH, tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
}

func pdfTableHeader(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, titles []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 235, 242)

	for i, title := range titles {
		align := "R"
		if i == 0 {
			align = "L"
		}

		pdf.CellFormat(widths[i], pdfTableLine, tr(title), "1", 0, align, true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func pdfCategoryTables(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	sym := data.CurrencySymbol

	for _, section := range []struct {
		title string
		rows  []CategoryBreakdown
	}{
		{"Receipts by Category", data.ReceiptsByCategory},
		{"Payments by Category", data.PaymentsByCategory},
	} {
		pdfSectionTitle(pdf, tr, section.title)

		if len(section.rows) == 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, pdfLineH, "None recorded this quarter.", "", 1, "L", false, 0, "")
			pdf.Ln(4)

			continue
		}

		widths := []float64{80, 40, 25, 25}
		pdfTableHeader(pdf, tr, widths, []string{"Category", "Amount", "Count", "Share"})

		for _, row := range section.rows {
			pdf.CellFormat(widths[0], pdfTableLine, tr(row.Label), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], pdfTableLine, tr(money(sym, row.Amount)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], pdfTableLine, fmt.Sprintf("%d", row.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], pdfTableLine, percent(row.Percentage), "1", 1, "R", false, 0, "")
		}

		pdf.Ln(4)
	}
}

func pdfCircuitTable(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdfSectionTitle(pdf, tr, "Circuit Breakdown")

	if len(data.CircuitBreakdown) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, pdfLineH, "No circuit activity this quarter.", "", 1, "L", false, 0, "")
		pdf.Ln(4)

		return
	}

	sym := data.CurrencySymbol
	widths := []float64{60, 35, 35, 35, 15}
	pdfTableHeader(pdf, tr, widths, []string{"Circuit", "Receipts", "Payments", "Net", "Txns"})

	for _, row := range data.CircuitBreakdown {
		pdf.CellFormat(widths[0], pdfTableLine, tr(row.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], pdfTableLine, tr(money(sym, row.Receipts)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], pdfTableLine, tr(money(sym, row.Payments)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], pdfTableLine, tr(money(sym, row.Net)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], pdfTableLine, fmt.Sprintf("%d", row.Count), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
}

func pdfMonthlyTable(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdfSectionTitle(pdf, tr, "Monthly Breakdown")

	sym := data.CurrencySymbol
	widths := []float64{60, 35, 35, 35, 15}
	pdfTableHeader(pdf, tr, widths, []string{"Month", "Receipts", "Payments", "Net", "Txns"})

	for _, row := range data.MonthlyBreakdown {
		pdf.CellFormat(widths[0], pdfTableLine, tr(row.Month), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], pdfTableLine, tr(money(sym, row.Receipts)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], pdfTableLine, tr(money(sym, row.Payments)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], pdfTableLine, tr(money(sym, row.Net)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], pdfTableLine, fmt.Sprintf("%d", row.Count), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
}

func pdfAdvanced(pdf *fpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdfSectionTitle(pdf, tr, "Statistics")

	sym := data.CurrencySymbol
	adv := data.Advanced

	rows := [][2]string{
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
		rows = append(rows, [2]string{
			"Largest Receipt",
			fmt.Sprintf("%s (%s)", money(sym, adv.LargestReceipt.Amount), adv.LargestReceipt.Description),
		})
	}

	if adv.LargestPayment != nil {
		rows = append(rows, [2]string{
			"Largest Payment",
			fmt.Sprintf("%s (%s)", money(sym, adv.LargestPayment.Amount), adv.LargestPayment.Description),
		})
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(75, pdfLineH, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, pdfLineH, tr(row[1]), "", 1, "L", false, 0, "")
	}
}

func growthLabel(g *float64) string {
	if g == nil {
		return "N/A"
	}

	return fmt.Sprintf("%+.1f%%", *g)
}
