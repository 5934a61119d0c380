package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// money renders an amount with the currency symbol and grouped thousands,
// e.g. "€1,234.56". Negative amounts carry a leading minus.
func money(symbol string, d decimal.Decimal) string {
	f, _ := d.Abs().Float64()

	formatted := printer.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	if d.IsNegative() {
		return fmt.Sprintf("-%s%s", symbol, formatted)
	}

	return symbol + formatted
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}
