package report_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/report"
	"github.com/europemission/martha/internal/transaction"
)

func tx(date time.Time, typ transaction.Type, cat transaction.Category, amount float64) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Date:        date,
		Type:        typ,
		Category:    cat,
		Description: "test",
		Amount:      decimal.NewFromFloat(amount),
		Quarter:     period.Of(date),
		Year:        date.Year(),
	}
}

func builder() *report.Builder {
	return report.NewBuilder("Europe Mission", "€")
}

func TestBuild_EmptyPeriod(t *testing.T) {
	data := builder().Build(nil, nil, period.Q1, 2024)

	assert.True(t, data.TotalReceipts.IsZero())
	assert.True(t, data.TotalPayments.IsZero())
	assert.True(t, data.NetBalance.IsZero())
	assert.Equal(t, 0, data.TotalTransactions)

	adv := data.Advanced
	assert.True(t, adv.AvgTransactionSize.IsZero())
	assert.True(t, adv.MedianTransaction.IsZero())
	assert.Nil(t, adv.LargestReceipt)
	assert.Nil(t, adv.LargestPayment)
	assert.Nil(t, adv.ReceiptGrowthVsPrevQ)
	assert.Zero(t, adv.OperatingRatio)
	assert.Equal(t, report.BalanceBalanced, adv.SurplusDeficit)

	// Monthly breakdown still covers all three months of the quarter.
	require.Len(t, data.MonthlyBreakdown, 3)
	assert.Equal(t, "January", data.MonthlyBreakdown[0].Month)
	assert.Equal(t, "March", data.MonthlyBreakdown[2].Month)
}

func TestBuild_Totals(t *testing.T) {
	nov := time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC)

	txs := []*transaction.Transaction{
		tx(nov, transaction.TypeReceipt, transaction.CategoryDonationReceived, 4000),
		tx(nov, transaction.TypeReceipt, transaction.CategoryCircuitContribution, 2105),
		tx(dec, transaction.TypePayment, transaction.CategoryTransportation, 500),
		tx(dec, transaction.TypePayment, transaction.CategoryPostage, 105.50),
		// Outside the quarter; must be excluded.
		tx(time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 9999),
	}

	data := builder().Build(txs, nil, period.Q4, 2023)

	assert.True(t, data.TotalReceipts.Equal(decimal.NewFromInt(6105)))
	assert.True(t, data.TotalPayments.Equal(decimal.NewFromFloat(605.50)))
	assert.True(t, data.NetBalance.Equal(decimal.NewFromFloat(5499.50)))
	assert.Equal(t, 4, data.TotalTransactions)
	assert.Equal(t, 2, data.ReceiptCount)
	assert.Equal(t, 2, data.PaymentCount)
	assert.Equal(t, report.BalanceSurplus, data.Advanced.SurplusDeficit)

	assert.InDelta(t, 605.50/6105.0, data.Advanced.OperatingRatio, 1e-9)
}

func TestBuild_CategoryBreakdown(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	txs := []*transaction.Transaction{
		tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 300),
		tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 100),
		tx(date, transaction.TypeReceipt, transaction.CategoryMerchandiseSale, 600),
	}

	data := builder().Build(txs, nil, period.Q1, 2024)

	require.Len(t, data.ReceiptsByCategory, 2)

	// Sorted by amount descending.
	first := data.ReceiptsByCategory[0]
	assert.Equal(t, transaction.CategoryMerchandiseSale, first.Category)
	assert.Equal(t, "Merchandise Sale", first.Label)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 1, first.Count)
	assert.InDelta(t, 60.0, first.Percentage, 1e-9)

	second := data.ReceiptsByCategory[1]
	assert.Equal(t, transaction.CategoryDonationReceived, second.Category)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 2, second.Count)
	assert.InDelta(t, 40.0, second.Percentage, 1e-9)
}

func TestBuild_SingleCategory(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	txs := []*transaction.Transaction{
		tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 150),
		tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 250),
	}

	data := builder().Build(txs, nil, period.Q1, 2024)

	require.Len(t, data.ReceiptsByCategory, 1)
	got := data.ReceiptsByCategory[0]
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 100.0, got.Percentage, 1e-9)
}

func TestBuild_CircuitBreakdown(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	known := &circuit.Circuit{ID: uuid.New(), Name: "Lisbon"}
	danglingID := uuid.New()

	withCircuit := func(t_ *transaction.Transaction, id uuid.UUID) *transaction.Transaction {
		t_.CircuitID = &id
		return t_
	}

	txs := []*transaction.Transaction{
		withCircuit(tx(date, transaction.TypeReceipt, transaction.CategoryCircuitContribution, 800), known.ID),
		withCircuit(tx(date, transaction.TypePayment, transaction.CategoryTransportation, 120), known.ID),
		withCircuit(tx(date, transaction.TypeReceipt, transaction.CategoryCircuitContribution, 50), danglingID),
		// No circuit; excluded from the breakdown.
		tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 10),
	}

	data := builder().Build(txs, []*circuit.Circuit{known}, period.Q2, 2024)

	require.Len(t, data.CircuitBreakdown, 2)

	lisbon := data.CircuitBreakdown[0]
	assert.Equal(t, "Lisbon", lisbon.Name)
	assert.True(t, lisbon.Receipts.Equal(decimal.NewFromInt(800)))
	assert.True(t, lisbon.Payments.Equal(decimal.NewFromInt(120)))
	assert.True(t, lisbon.Net.Equal(decimal.NewFromInt(680)))
	assert.Equal(t, 2, lisbon.Count)

	assert.Equal(t, "Unknown", data.CircuitBreakdown[1].Name)
}

func TestBuild_MonthlyBreakdown(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 100),
		tx(time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC), transaction.TypePayment, transaction.CategoryPostage, 30),
		tx(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 500),
	}

	data := builder().Build(txs, nil, period.Q3, 2024)

	require.Len(t, data.MonthlyBreakdown, 3)

	july := data.MonthlyBreakdown[0]
	assert.Equal(t, "July", july.Month)
	assert.True(t, july.Receipts.Equal(decimal.NewFromInt(100)))
	assert.True(t, july.Payments.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, july.Count)

	august := data.MonthlyBreakdown[1]
	assert.Equal(t, 0, august.Count)
	assert.True(t, august.Net.IsZero())

	assert.Equal(t, "July", data.Advanced.BusiestMonth)
	assert.Equal(t, "August", data.Advanced.QuietestMonth)
}

func TestBuild_MedianAndLargest(t *testing.T) {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("OddCount", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 10),
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 90),
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 40),
		}

		data := builder().Build(txs, nil, period.Q1, 2024)
		assert.True(t, data.Advanced.MedianTransaction.Equal(decimal.NewFromInt(40)))
	})

	t.Run("EvenCount", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 10),
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 20),
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 30),
			tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 40),
		}

		data := builder().Build(txs, nil, period.Q1, 2024)
		assert.True(t, data.Advanced.MedianTransaction.Equal(decimal.NewFromInt(25)))
	})

	t.Run("LargestFirstOnTie", func(t *testing.T) {
		a := tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 100)
		b := tx(date, transaction.TypeReceipt, transaction.CategoryDonationReceived, 100)

		data := builder().Build([]*transaction.Transaction{a, b}, nil, period.Q1, 2024)
		require.NotNil(t, data.Advanced.LargestReceipt)
		assert.Equal(t, a.ID, data.Advanced.LargestReceipt.ID)
	})
}

func TestBuild_PreviousQuarterGrowth(t *testing.T) {
	prev := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	cur := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("NoPriorData", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(cur, transaction.TypeReceipt, transaction.CategoryDonationReceived, 100),
		}

		data := builder().Build(txs, nil, period.Q2, 2024)
		assert.Nil(t, data.Advanced.ReceiptGrowthVsPrevQ)
		assert.Nil(t, data.Advanced.PaymentGrowthVsPrevQ)
		assert.Nil(t, data.Advanced.BalanceGrowthVsPrevQ)
	})

	t.Run("GrowthAgainstPriorQuarter", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(prev, transaction.TypeReceipt, transaction.CategoryDonationReceived, 200),
			tx(cur, transaction.TypeReceipt, transaction.CategoryDonationReceived, 300),
		}

		data := builder().Build(txs, nil, period.Q2, 2024)
		require.NotNil(t, data.Advanced.ReceiptGrowthVsPrevQ)
		assert.InDelta(t, 50.0, *data.Advanced.ReceiptGrowthVsPrevQ, 1e-9)
		assert.True(t, data.Advanced.PrevQReceipts.Equal(decimal.NewFromInt(200)))
	})

	t.Run("ZeroBaseIsUndefined", func(t *testing.T) {
		// Prior quarter has data but no payments; payment growth has no base.
		txs := []*transaction.Transaction{
			tx(prev, transaction.TypeReceipt, transaction.CategoryDonationReceived, 200),
			tx(cur, transaction.TypePayment, transaction.CategoryPostage, 50),
		}

		data := builder().Build(txs, nil, period.Q2, 2024)
		assert.Nil(t, data.Advanced.PaymentGrowthVsPrevQ)
	})

	t.Run("Q1LooksAtPriorYearQ4", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 100),
			tx(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 150),
		}

		data := builder().Build(txs, nil, period.Q1, 2024)
		require.NotNil(t, data.Advanced.ReceiptGrowthVsPrevQ)
		assert.InDelta(t, 50.0, *data.Advanced.ReceiptGrowthVsPrevQ, 1e-9)
	})
}

func TestBuild_SortsTransactionsByDateDesc(t *testing.T) {
	old := tx(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 10)
	recent := tx(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), transaction.TypeReceipt, transaction.CategoryDonationReceived, 20)

	data := builder().Build([]*transaction.Transaction{old, recent}, nil, period.Q1, 2024)

	require.Len(t, data.AllReceipts, 2)
	assert.Equal(t, recent.ID, data.AllReceipts[0].ID)
	assert.Equal(t, old.ID, data.AllReceipts[1].ID)
}

func TestBuild_TopCategoriesCapped(t *testing.T) {
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	categories := []transaction.Category{
		transaction.CategoryDonationGiven,
		transaction.CategoryMerchandisePurchase,
		transaction.CategoryTransportation,
		transaction.CategoryPostage,
		transaction.CategoryEventExpense,
		transaction.CategoryAirtime,
		transaction.CategoryStationery,
	}

	txs := make([]*transaction.Transaction, 0, len(categories))
	for i, cat := range categories {
		txs = append(txs, tx(date, transaction.TypePayment, cat, float64(100+i)))
	}

	data := builder().Build(txs, nil, period.Q1, 2024)

	assert.Len(t, data.PaymentsByCategory, len(categories))
	assert.Len(t, data.Advanced.TopPaymentCategories, 5)
}
