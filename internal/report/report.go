// Package report computes quarterly financial statistics and renders them as
// CSV, PDF and Word documents. Build is pure: it never touches storage and
// never fails, degrading every ratio and average to a defined zero (or nil)
// on empty input.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

// CategoryBreakdown aggregates one category's share of a period total.
type CategoryBreakdown struct {
	Category   transaction.Category `json:"category"`
	Label      string               `json:"label"`
	Amount     decimal.Decimal      `json:"amount"`
	Count      int                  `json:"count"`
	Percentage float64              `json:"percentage"`
}

// CircuitBreakdown aggregates one circuit's receipts and payments. Name is
// "Unknown" when the referenced circuit no longer exists.
type CircuitBreakdown struct {
	Name     string          `json:"name"`
	Receipts decimal.Decimal `json:"receipts"`
	Payments decimal.Decimal `json:"payments"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// MonthlyBreakdown aggregates one calendar month of the quarter.
type MonthlyBreakdown struct {
	Month    string          `json:"month"`
	MonthNum time.Month      `json:"monthNum"`
	Receipts decimal.Decimal `json:"receipts"`
	Payments decimal.Decimal `json:"payments"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// Balance is "surplus", "deficit" or "balanced" depending on the sign of the
// net balance.
type Balance string

const (
	BalanceSurplus  Balance = "surplus"
	BalanceDeficit  Balance = "deficit"
	BalanceBalanced Balance = "balanced"
)

// AdvancedStats carries the derived statistics of a quarter. Growth fields are
// nil when the prior quarter has no data or a non-positive base.
type AdvancedStats struct {
	AvgTransactionSize decimal.Decimal `json:"avgTransactionSize"`
	AvgReceiptSize     decimal.Decimal `json:"avgReceiptSize"`
	AvgPaymentSize     decimal.Decimal `json:"avgPaymentSize"`
	MedianTransaction  decimal.Decimal `json:"medianTransaction"`

	LargestReceipt *transaction.Transaction `json:"largestReceipt,omitempty"`
	LargestPayment *transaction.Transaction `json:"largestPayment,omitempty"`

	ReceiptGrowthVsPrevQ *float64 `json:"receiptGrowthVsPrevQ,omitempty"`
	PaymentGrowthVsPrevQ *float64 `json:"paymentGrowthVsPrevQ,omitempty"`
	BalanceGrowthVsPrevQ *float64 `json:"balanceGrowthVsPrevQ,omitempty"`

	PrevQReceipts decimal.Decimal `json:"prevQReceipts"`
	PrevQPayments decimal.Decimal `json:"prevQPayments"`
	PrevQBalance  decimal.Decimal `json:"prevQBalance"`

	TopReceiptCategories []CategoryBreakdown `json:"topReceiptCategories"`
	TopPaymentCategories []CategoryBreakdown `json:"topPaymentCategories"`

	BusiestMonth  string `json:"busiestMonth"`
	QuietestMonth string `json:"quietestMonth"`

	OperatingRatio float64 `json:"operatingRatio"`
	SurplusDeficit Balance `json:"surplusDeficit"`
}

// ReportData is the complete document description consumed by the renderers.
type ReportData struct {
	Organization   string         `json:"organization"`
	CurrencySymbol string         `json:"currencySymbol"`
	Quarter        period.Quarter `json:"quarter"`
	Year           int            `json:"year"`
	QuarterLabel   string         `json:"quarterLabel"`
	GeneratedAt    time.Time      `json:"generatedAt"`

	TotalReceipts     decimal.Decimal `json:"totalReceipts"`
	TotalPayments     decimal.Decimal `json:"totalPayments"`
	NetBalance        decimal.Decimal `json:"netBalance"`
	TotalTransactions int             `json:"totalTransactions"`
	ReceiptCount      int             `json:"receiptCount"`
	PaymentCount      int             `json:"paymentCount"`

	ReceiptsByCategory []CategoryBreakdown `json:"receiptsByCategory"`
	PaymentsByCategory []CategoryBreakdown `json:"paymentsByCategory"`
	CircuitBreakdown   []CircuitBreakdown  `json:"circuitBreakdown"`
	MonthlyBreakdown   []MonthlyBreakdown  `json:"monthlyBreakdown"`

	Advanced AdvancedStats `json:"advanced"`

	AllReceipts []*transaction.Transaction `json:"allReceipts"`
	AllPayments []*transaction.Transaction `json:"allPayments"`

	// CircuitNames resolves circuit references for display; dangling
	// references are absent and render as "Unknown".
	CircuitNames map[uuid.UUID]string `json:"-"`
}

// Builder computes ReportData with the organization header applied.
type Builder struct {
	Organization   string
	CurrencySymbol string
}

func NewBuilder(organization, currencySymbol string) *Builder {
	return &Builder{Organization: organization, CurrencySymbol: currencySymbol}
}

// Build aggregates the given transactions into the statistics for one quarter.
// The transaction slice must be the full history: the prior quarter's figures
// are derived from it as well.
func (b *Builder) Build(txs []*transaction.Transaction, circuits []*circuit.Circuit, q period.Quarter, year int) *ReportData {
	filtered := filterQuarter(txs, q, year)
	receipts := filterType(filtered, transaction.TypeReceipt)
	payments := filterType(filtered, transaction.TypePayment)

	totalReceipts := sumAmounts(receipts)
	totalPayments := sumAmounts(payments)
	netBalance := totalReceipts.Sub(totalPayments)

	circuitNames := make(map[uuid.UUID]string, len(circuits))
	for _, c := range circuits {
		circuitNames[c.ID] = c.Name
	}

	monthly := monthlyBreakdown(filtered, q)

	prevQ, prevYear := period.Previous(q, year)
	prevFiltered := filterQuarter(txs, prevQ, prevYear)
	prevReceipts := sumAmounts(filterType(prevFiltered, transaction.TypeReceipt))
	prevPayments := sumAmounts(filterType(prevFiltered, transaction.TypePayment))
	prevBalance := prevReceipts.Sub(prevPayments)
	hasPrevData := len(prevFiltered) > 0

	advanced := AdvancedStats{
		AvgTransactionSize: average(filtered),
		AvgReceiptSize:     average(receipts),
		AvgPaymentSize:     average(payments),
		MedianTransaction:  median(filtered),
		LargestReceipt:     largest(receipts),
		LargestPayment:     largest(payments),
		PrevQReceipts:      prevReceipts,
		PrevQPayments:      prevPayments,
		PrevQBalance:       prevBalance,
		BusiestMonth:       busiestMonth(monthly),
		QuietestMonth:      quietestMonth(monthly),
		OperatingRatio:     operatingRatio(totalReceipts, totalPayments),
		SurplusDeficit:     surplusDeficit(netBalance),
	}

	if hasPrevData {
		advanced.ReceiptGrowthVsPrevQ = growth(totalReceipts, prevReceipts)
		advanced.PaymentGrowthVsPrevQ = growth(totalPayments, prevPayments)
		advanced.BalanceGrowthVsPrevQ = growth(netBalance, prevBalance)
	}

	receiptsByCategory := categoryBreakdown(receipts, totalReceipts)
	paymentsByCategory := categoryBreakdown(payments, totalPayments)
	advanced.TopReceiptCategories = top(receiptsByCategory, 5)
	advanced.TopPaymentCategories = top(paymentsByCategory, 5)

	return &ReportData{
		Organization:       b.Organization,
		CurrencySymbol:     b.CurrencySymbol,
		Quarter:            q,
		Year:               year,
		QuarterLabel:       q.Label(),
		GeneratedAt:        time.Now().UTC(),
		TotalReceipts:      totalReceipts,
		TotalPayments:      totalPayments,
		NetBalance:         netBalance,
		TotalTransactions:  len(filtered),
		ReceiptCount:       len(receipts),
		PaymentCount:       len(payments),
		ReceiptsByCategory: receiptsByCategory,
		PaymentsByCategory: paymentsByCategory,
		CircuitBreakdown:   circuitBreakdown(filtered, circuitNames),
		MonthlyBreakdown:   monthly,
		Advanced:           advanced,
		AllReceipts:        sortByDateDesc(receipts),
		AllPayments:        sortByDateDesc(payments),
		CircuitNames:       circuitNames,
	}
}

func filterQuarter(txs []*transaction.Transaction, q period.Quarter, year int) []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, tx := range txs {
		if tx.Quarter == q && tx.Year == year {
			out = append(out, tx)
		}
	}

	return out
}

func filterType(txs []*transaction.Transaction, t transaction.Type) []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, tx := range txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}

	return out
}

func sumAmounts(txs []*transaction.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}

	return sum
}

func average(txs []*transaction.Transaction) decimal.Decimal {
	if len(txs) == 0 {
		return decimal.Zero
	}

	return sumAmounts(txs).Div(decimal.NewFromInt(int64(len(txs))))
}

func median(txs []*transaction.Transaction) decimal.Decimal {
	if len(txs) == 0 {
		return decimal.Zero
	}

	amounts := make([]decimal.Decimal, len(txs))
	for i, tx := range txs {
		amounts[i] = tx.Amount
	}

	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].LessThan(amounts[j])
	})

	mid := len(amounts) / 2
	if len(amounts)%2 == 1 {
		return amounts[mid]
	}

	return amounts[mid-1].Add(amounts[mid]).Div(decimal.NewFromInt(2))
}

// largest returns the transaction with the maximum amount, first-encountered
// on ties, or nil for an empty subset.
func largest(txs []*transaction.Transaction) *transaction.Transaction {
	if len(txs) == 0 {
		return nil
	}

	best := txs[0]
	for _, tx := range txs[1:] {
		if tx.Amount.GreaterThan(best.Amount) {
			best = tx
		}
	}

	return best
}

// growth returns the percentage change from prev, or nil when prev is not
// positive (no meaningful base).
func growth(current, prev decimal.Decimal) *float64 {
	if !prev.IsPositive() {
		return nil
	}

	g, _ := current.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Float64()

	return &g
}

func operatingRatio(receipts, payments decimal.Decimal) float64 {
	if !receipts.IsPositive() {
		return 0
	}

	ratio, _ := payments.Div(receipts).Float64()

	return ratio
}

func surplusDeficit(net decimal.Decimal) Balance {
	switch {
	case net.IsPositive():
		return BalanceSurplus
	case net.IsNegative():
		return BalanceDeficit
	default:
		return BalanceBalanced
	}
}

// categoryBreakdown groups transactions by category, sorted descending by
// amount. Ties keep first-encounter order. Percentage is 0 when the period
// total is zero.
func categoryBreakdown(txs []*transaction.Transaction, total decimal.Decimal) []CategoryBreakdown {
	type entry struct {
		amount decimal.Decimal
		count  int
	}

	byCategory := make(map[transaction.Category]*entry)

	var order []transaction.Category

	for _, tx := range txs {
		e, ok := byCategory[tx.Category]
		if !ok {
			e = &entry{amount: decimal.Zero}
			byCategory[tx.Category] = e

			order = append(order, tx.Category)
		}

		e.amount = e.amount.Add(tx.Amount)
		e.count++
	}

	out := make([]CategoryBreakdown, 0, len(order))

	for _, cat := range order {
		e := byCategory[cat]

		pct := 0.0
		if total.IsPositive() {
			pct, _ = e.amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}

		out = append(out, CategoryBreakdown{
			Category:   cat,
			Label:      cat.Label(),
			Amount:     e.amount,
			Count:      e.count,
			Percentage: pct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	return out
}

// circuitBreakdown groups transactions by circuit reference, sorted descending
// by receipts. Transactions without a circuit are skipped; dangling references
// show as "Unknown".
func circuitBreakdown(txs []*transaction.Transaction, names map[uuid.UUID]string) []CircuitBreakdown {
	type entry struct {
		receipts decimal.Decimal
		payments decimal.Decimal
		count    int
	}

	byCircuit := make(map[uuid.UUID]*entry)

	var order []uuid.UUID

	for _, tx := range txs {
		if tx.CircuitID == nil {
			continue
		}

		id := *tx.CircuitID

		e, ok := byCircuit[id]
		if !ok {
			e = &entry{receipts: decimal.Zero, payments: decimal.Zero}
			byCircuit[id] = e

			order = append(order, id)
		}

		if tx.Type == transaction.TypeReceipt {
			e.receipts = e.receipts.Add(tx.Amount)
		} else {
			e.payments = e.payments.Add(tx.Amount)
		}

		e.count++
	}

	out := make([]CircuitBreakdown, 0, len(order))

	for _, id := range order {
		e := byCircuit[id]

		name, ok := names[id]
		if !ok {
			name = "Unknown"
		}

		out = append(out, CircuitBreakdown{
			Name:     name,
			Receipts: e.receipts,
			Payments: e.payments,
			Net:      e.receipts.Sub(e.payments),
			Count:    e.count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Receipts.GreaterThan(out[j].Receipts)
	})

	return out
}

func monthlyBreakdown(filtered []*transaction.Transaction, q period.Quarter) []MonthlyBreakdown {
	months := q.Months()
	out := make([]MonthlyBreakdown, 0, len(months))

	for _, month := range months {
		receipts := decimal.Zero
		payments := decimal.Zero
		count := 0

		for _, tx := range filtered {
			if tx.Date.Month() != month {
				continue
			}

			if tx.Type == transaction.TypeReceipt {
				receipts = receipts.Add(tx.Amount)
			} else {
				payments = payments.Add(tx.Amount)
			}

			count++
		}

		out = append(out, MonthlyBreakdown{
			Month:    month.String(),
			MonthNum: month,
			Receipts: receipts,
			Payments: payments,
			Net:      receipts.Sub(payments),
			Count:    count,
		})
	}

	return out
}

func busiestMonth(monthly []MonthlyBreakdown) string {
	if len(monthly) == 0 {
		return ""
	}

	best := monthly[0]
	for _, m := range monthly[1:] {
		if m.Count > best.Count {
			best = m
		}
	}

	return best.Month
}

func quietestMonth(monthly []MonthlyBreakdown) string {
	if len(monthly) == 0 {
		return ""
	}

	best := monthly[0]
	for _, m := range monthly[1:] {
		if m.Count < best.Count {
			best = m
		}
	}

	return best.Month
}

func top(breakdown []CategoryBreakdown, n int) []CategoryBreakdown {
	if len(breakdown) <= n {
		return breakdown
	}

	return breakdown[:n]
}

func sortByDateDesc(txs []*transaction.Transaction) []*transaction.Transaction {
	sorted := make([]*transaction.Transaction, len(txs))
	copy(sorted, txs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return sorted
}
