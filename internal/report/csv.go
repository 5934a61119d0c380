package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/europemission/martha/internal/transaction"
)

// RenderCSV writes the quarter's transactions as CSV, preceded by a short
// summary block. Amounts are plain decimals so the file re-imports cleanly
// into spreadsheet tools.
func RenderCSV(w io.Writer, data *ReportData) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{data.Organization},
		{fmt.Sprintf("Quarterly Report %s %d (%s)", data.Quarter, data.Year, data.QuarterLabel)},
		{},
		{"Total Receipts", data.TotalReceipts.StringFixed(2)},
		{"Total Payments", data.TotalPayments.StringFixed(2)},
		{"Net Balance", data.NetBalance.StringFixed(2)},
		{"Transactions", fmt.Sprintf("%d", data.TotalTransactions)},
		{},
		{"Date", "Type", "Category", "Description", "Amount", "Circuit", "Notes"},
	}

	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	for _, txs := range [][]*transaction.Transaction{data.AllReceipts, data.AllPayments} {
		for _, tx := range txs {
			if err := cw.Write(csvRow(data, tx)); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

func csvRow(data *ReportData, tx *transaction.Transaction) []string {
	circuitName := ""

	if tx.CircuitID != nil {
		name, ok := data.CircuitNames[*tx.CircuitID]
		if !ok {
			name = "Unknown"
		}

		circuitName = name
	}

	return []string{
		tx.Date.Format("2006-01-02"),
		string(tx.Type),
		tx.Category.Label(),
		tx.Description,
		tx.Amount.StringFixed(2),
		circuitName,
		tx.Notes,
	}
}
