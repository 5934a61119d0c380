package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	txs       map[uuid.UUID]*transaction.Transaction
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{txs: make(map[uuid.UUID]*transaction.Transaction)}
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.txs[tx.ID] = tx

	return nil
}

func (r *fakeRepo) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return tx, nil
}

func (r *fakeRepo) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	if _, ok := r.txs[tx.ID]; !ok {
		return transaction.ErrNotFound
	}

	r.txs[tx.ID] = tx

	return nil
}

func (r *fakeRepo) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	if _, ok := r.txs[id]; !ok {
		return transaction.ErrNotFound
	}

	delete(r.txs, id)

	return nil
}

func (r *fakeRepo) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction

	for _, tx := range r.txs {
		if filter.Quarter != nil && tx.Quarter != *filter.Quarter {
			continue
		}

		if filter.Year != nil && tx.Year != *filter.Year {
			continue
		}

		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}

		out = append(out, tx)
	}

	return out, nil
}

func (r *fakeRepo) ReplaceAllTransactions(_ context.Context, txs []*transaction.Transaction) error {
	r.txs = make(map[uuid.UUID]*transaction.Transaction, len(txs))
	for _, tx := range txs {
		r.txs[tx.ID] = tx
	}

	return nil
}

func validParams() transaction.CreateParams {
	return transaction.CreateParams{
		Date:        time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC),
		Type:        transaction.TypeReceipt,
		Category:    transaction.CategoryDonationReceived,
		Description: "Donation from annual gathering",
		Amount:      decimal.NewFromInt(250),
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		mutate    func(p *transaction.CreateParams)
		wantErr   bool
		wantField string
	}

	tests := []testCase{
		{
			name:   "Success",
			mutate: func(p *transaction.CreateParams) {},
		},
		{
			name:      "MissingDate",
			mutate:    func(p *transaction.CreateParams) { p.Date = time.Time{} },
			wantErr:   true,
			wantField: "date",
		},
		{
			name:      "UnknownType",
			mutate:    func(p *transaction.CreateParams) { p.Type = "transfer" },
			wantErr:   true,
			wantField: "type",
		},
		{
			name: "PaymentCategoryOnReceipt",
			mutate: func(p *transaction.CreateParams) {
				p.Category = transaction.CategoryTransportation
			},
			wantErr:   true,
			wantField: "category",
		},
		{
			name:      "EmptyDescription",
			mutate:    func(p *transaction.CreateParams) { p.Description = "   " },
			wantErr:   true,
			wantField: "description",
		},
		{
			name:      "ZeroAmount",
			mutate:    func(p *transaction.CreateParams) { p.Amount = decimal.Zero },
			wantErr:   true,
			wantField: "amount",
		},
		{
			name:      "NegativeAmount",
			mutate:    func(p *transaction.CreateParams) { p.Amount = decimal.NewFromInt(-5) },
			wantErr:   true,
			wantField: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transaction.NewService(newFakeRepo())

			params := validParams()
			tt.mutate(&params)

			got, err := svc.Create(context.Background(), params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.True(t, transaction.IsValidation(err))

				var vErr *transaction.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Field)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestService_Create_DerivesQuarter(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		wantQ    period.Quarter
		wantYear int
	}{
		{name: "February", date: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), wantQ: period.Q1, wantYear: 2024},
		{name: "July", date: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), wantQ: period.Q3, wantYear: 2023},
		{name: "December31", date: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), wantQ: period.Q4, wantYear: 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transaction.NewService(newFakeRepo())

			params := validParams()
			params.Date = tt.date

			got, err := svc.Create(context.Background(), params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQ, got.Quarter)
			assert.Equal(t, tt.wantYear, got.Year)
		})
	}
}

func TestService_Create_ItemSums(t *testing.T) {
	productID := uuid.New()

	t.Run("AmountMatchesItems", func(t *testing.T) {
		svc := transaction.NewService(newFakeRepo())

		params := validParams()
		params.Category = transaction.CategoryMerchandiseSale
		params.Amount = decimal.NewFromInt(60)
		params.Items = []transaction.Item{
			{ProductID: productID, ProductName: "Badge", Quantity: 4, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: productID, ProductName: "Scarf", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
		}

		got, err := svc.Create(context.Background(), params)
		require.NoError(t, err)

		assert.True(t, got.Items[0].Total.Equal(decimal.NewFromInt(40)))
		assert.True(t, got.Items[1].Total.Equal(decimal.NewFromInt(20)))
	})

	t.Run("AmountMismatchRejected", func(t *testing.T) {
		svc := transaction.NewService(newFakeRepo())

		params := validParams()
		params.Category = transaction.CategoryMerchandiseSale
		params.Amount = decimal.NewFromInt(55)
		params.Items = []transaction.Item{
			{ProductID: productID, ProductName: "Badge", Quantity: 4, UnitPrice: decimal.NewFromInt(10)},
		}

		_, err := svc.Create(context.Background(), params)
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
	})

	t.Run("ZeroQuantityRejected", func(t *testing.T) {
		svc := transaction.NewService(newFakeRepo())

		params := validParams()
		params.Category = transaction.CategoryMerchandiseSale
		params.Amount = decimal.NewFromInt(10)
		params.Items = []transaction.Item{
			{ProductID: productID, ProductName: "Badge", Quantity: 0, UnitPrice: decimal.NewFromInt(10)},
		}

		_, err := svc.Create(context.Background(), params)
		require.Error(t, err)
	})
}

func TestService_Create_RepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db error")

	svc := transaction.NewService(repo)

	_, err := svc.Create(context.Background(), validParams())
	require.Error(t, err)
	assert.False(t, transaction.IsValidation(err))
}

func TestService_Update_RederivesQuarter(t *testing.T) {
	repo := newFakeRepo()
	svc := transaction.NewService(repo)

	got, err := svc.Create(context.Background(), validParams())
	require.NoError(t, err)
	require.Equal(t, period.Q2, got.Quarter)

	got.Date = time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Update(context.Background(), got))

	assert.Equal(t, period.Q4, got.Quarter)
	assert.Equal(t, 2024, got.Year)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := transaction.NewService(newFakeRepo())

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}
