package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/europemission/martha/internal/database"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
	"github.com/europemission/martha/internal/transaction/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db)
}

func sampleTx() *transaction.Transaction {
	now := time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC)

	return &transaction.Transaction{
		ID:          uuid.New(),
		Date:        now,
		Type:        transaction.TypeReceipt,
		Category:    transaction.CategoryMerchandiseSale,
		Description: "Badge sale at conference",
		Amount:      decimal.NewFromFloat(45.50),
		Quarter:     period.Q2,
		Year:        2024,
		Items: []transaction.Item{
			{ProductID: uuid.New(), ProductName: "Pin Badge", Quantity: 13, UnitPrice: decimal.NewFromFloat(3.50), Total: decimal.NewFromFloat(45.50)},
		},
		Notes:     "cash",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleTx()
	circuitID := uuid.New()
	want.CircuitID = &circuitID

	require.NoError(t, s.CreateTransaction(ctx, want))

	got, err := s.GetTransaction(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, got.Amount.Equal(want.Amount))
	require.NotNil(t, got.CircuitID)
	assert.Equal(t, circuitID, *got.CircuitID)
	assert.Nil(t, got.EventID)
	assert.Equal(t, period.Q2, got.Quarter)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "cash", got.Notes)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pin Badge", got.Items[0].ProductName)
	assert.Equal(t, 13, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Total.Equal(decimal.NewFromFloat(45.50)))
}

func TestStore_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTransaction(context.Background(), uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_List_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q2 := sampleTx()
	require.NoError(t, s.CreateTransaction(ctx, q2))

	q4 := sampleTx()
	q4.ID = uuid.New()
	q4.Date = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	q4.Type = transaction.TypePayment
	q4.Category = transaction.CategoryPostage
	q4.Quarter = period.Q4
	q4.Items = nil
	require.NoError(t, s.CreateTransaction(ctx, q4))

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Newest first.
	assert.Equal(t, q4.ID, all[0].ID)

	quarter := period.Q2
	year := 2024
	filtered, err := s.ListTransactions(ctx, transaction.ListFilter{Quarter: &quarter, Year: &year})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, q2.ID, filtered[0].ID)

	payment := transaction.TypePayment
	filtered, err = s.ListTransactions(ctx, transaction.ListFilter{Type: &payment})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, q4.ID, filtered[0].ID)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := sampleTx()
	require.NoError(t, s.CreateTransaction(ctx, tx))

	tx.Description = "Corrected description"
	tx.Amount = decimal.NewFromInt(50)
	tx.Items = nil
	require.NoError(t, s.UpdateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corrected description", got.Description)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, got.Items)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	_, err = s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)

	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), transaction.ErrNotFound)
	assert.ErrorIs(t, s.UpdateTransaction(ctx, tx), transaction.ErrNotFound)
}

func TestStore_ReplaceAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := sampleTx()
	require.NoError(t, s.CreateTransaction(ctx, old))

	replacement := sampleTx()
	replacement.ID = uuid.New()
	replacement.Description = "From backup"

	require.NoError(t, s.ReplaceAllTransactions(ctx, []*transaction.Transaction{replacement}))

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, replacement.ID, all[0].ID)
	assert.Equal(t, "From backup", all[0].Description)
}
