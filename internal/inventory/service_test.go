package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/europemission/martha/internal/inventory"
	"github.com/europemission/martha/internal/period"
)

type fakeRepo struct {
	products  map[uuid.UUID]*inventory.Product
	movements []*inventory.StockMovement
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[uuid.UUID]*inventory.Product)}
}

func (r *fakeRepo) CreateProduct(_ context.Context, p *inventory.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeRepo) GetProduct(_ context.Context, id uuid.UUID) (*inventory.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}

	return p, nil
}

func (r *fakeRepo) UpdateProduct(_ context.Context, p *inventory.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return inventory.ErrProductNotFound
	}

	r.products[p.ID] = p

	return nil
}

func (r *fakeRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) ListProducts(_ context.Context) ([]*inventory.Product, error) {
	out := make([]*inventory.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}

	return out, nil
}

func (r *fakeRepo) ReplaceAllProducts(_ context.Context, products []*inventory.Product) error {
	r.products = make(map[uuid.UUID]*inventory.Product, len(products))
	for _, p := range products {
		r.products[p.ID] = p
	}

	return nil
}

func (r *fakeRepo) CreateMovement(_ context.Context, m *inventory.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) ListMovements(_ context.Context, filter inventory.MovementFilter) ([]*inventory.StockMovement, error) {
	var out []*inventory.StockMovement

	for _, m := range r.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}

		if filter.Quarter != nil && m.Quarter != *filter.Quarter {
			continue
		}

		if filter.Year != nil && m.Year != *filter.Year {
			continue
		}

		out = append(out, m)
	}

	return out, nil
}

func (r *fakeRepo) ReplaceAllMovements(_ context.Context, movements []*inventory.StockMovement) error {
	r.movements = movements
	return nil
}

func TestStockOnHand(t *testing.T) {
	productID := uuid.New()

	movement := func(typ inventory.MovementType, qty int) *inventory.StockMovement {
		return &inventory.StockMovement{
			ID:        uuid.New(),
			ProductID: productID,
			Type:      typ,
			Quantity:  qty,
		}
	}

	tests := []struct {
		name      string
		movements []*inventory.StockMovement
		want      int
	}{
		{
			name: "Empty",
			want: 0,
		},
		{
			name: "PurchasesMinusSales",
			movements: []*inventory.StockMovement{
				movement(inventory.MovementPurchase, 50),
				movement(inventory.MovementPurchase, 40),
				movement(inventory.MovementSale, 16),
			},
			want: 74,
		},
		{
			name: "OversoldClampsToZero",
			movements: []*inventory.StockMovement{
				movement(inventory.MovementPurchase, 10),
				movement(inventory.MovementSale, 25),
			},
			want: 0,
		},
		{
			name: "AdjustmentAdds",
			movements: []*inventory.StockMovement{
				movement(inventory.MovementPurchase, 5),
				movement(inventory.MovementAdjustment, 3),
				movement(inventory.MovementSale, 6),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.StockOnHand(tt.movements))
		})
	}
}

func TestStockOnHand_OrderIndependent(t *testing.T) {
	productID := uuid.New()

	forward := []*inventory.StockMovement{
		{ID: uuid.New(), ProductID: productID, Type: inventory.MovementPurchase, Quantity: 30},
		{ID: uuid.New(), ProductID: productID, Type: inventory.MovementSale, Quantity: 12},
		{ID: uuid.New(), ProductID: productID, Type: inventory.MovementPurchase, Quantity: 7},
	}

	reversed := []*inventory.StockMovement{forward[2], forward[1], forward[0]}

	assert.Equal(t, inventory.StockOnHand(forward), inventory.StockOnHand(reversed))
}

func createProduct(t *testing.T, svc *inventory.Service, stock int) *inventory.Product {
	t.Helper()

	p, err := svc.CreateProduct(context.Background(), inventory.ProductParams{
		Name:         "Enamel Badge",
		CostPrice:    decimal.NewFromFloat(2.50),
		SellingPrice: decimal.NewFromFloat(5.00),
		ReorderLevel: 10,
		Category:     inventory.CategoryBadge,
		InitialStock: stock,
	})
	require.NoError(t, err)

	return p
}

func TestService_RecordMovement(t *testing.T) {
	repo := newFakeRepo()
	svc := inventory.NewService(repo)

	p := createProduct(t, svc, 0)
	date := time.Date(2024, 8, 14, 0, 0, 0, 0, time.UTC)

	purchase, err := svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: p.ID,
		Type:      inventory.MovementPurchase,
		Quantity:  90,
		UnitPrice: decimal.NewFromFloat(2.50),
		Date:      date,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, purchase.Stock)
	assert.False(t, purchase.OverSale)
	assert.Equal(t, period.Q3, purchase.Movement.Quarter)
	assert.Equal(t, 2024, purchase.Movement.Year)

	sale, err := svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: p.ID,
		Type:      inventory.MovementSale,
		Quantity:  16,
		UnitPrice: decimal.NewFromFloat(5.00),
		Date:      date,
	})
	require.NoError(t, err)
	assert.Equal(t, 74, sale.Stock)
	assert.False(t, sale.OverSale)

	stored, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 74, stored.CurrentStock)
}

func TestService_RecordMovement_OverSale(t *testing.T) {
	repo := newFakeRepo()
	svc := inventory.NewService(repo)

	p := createProduct(t, svc, 5)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Selling more than on hand is recorded, flagged, and floors at zero.
	result, err := svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: p.ID,
		Type:      inventory.MovementSale,
		Quantity:  8,
		UnitPrice: decimal.NewFromFloat(5.00),
		Date:      date,
	})
	require.NoError(t, err)
	assert.True(t, result.OverSale)
	assert.Equal(t, 0, result.Stock)

	// The initial stock adjustment plus the over-sale itself.
	require.Len(t, repo.movements, 2)
	assert.Equal(t, inventory.MovementSale, repo.movements[1].Type)
	assert.Equal(t, 8, repo.movements[1].Quantity)
}

func TestService_CreateProduct_InitialStock(t *testing.T) {
	repo := newFakeRepo()
	svc := inventory.NewService(repo)

	p := createProduct(t, svc, 50)
	assert.Equal(t, 50, p.CurrentStock)

	// The initial quantity is backed by an adjustment movement.
	require.Len(t, repo.movements, 1)
	assert.Equal(t, inventory.MovementAdjustment, repo.movements[0].Type)
	assert.Equal(t, 50, repo.movements[0].Quantity)

	// A later movement refolds the full history; the initial stock survives.
	result, err := svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: p.ID,
		Type:      inventory.MovementPurchase,
		Quantity:  10,
		UnitPrice: decimal.NewFromFloat(2.50),
		Date:      time.Date(2024, 8, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, result.Stock)

	stored, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.CurrentStock)
}

func TestService_RecordMovement_Validation(t *testing.T) {
	svc := inventory.NewService(newFakeRepo())

	_, err := svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: uuid.New(),
		Type:      inventory.MovementSale,
		Quantity:  0,
		Date:      time.Now(),
	})
	require.Error(t, err)

	_, err = svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: uuid.New(),
		Type:      "loan",
		Quantity:  1,
		Date:      time.Now(),
	})
	require.Error(t, err)

	_, err = svc.RecordMovement(context.Background(), inventory.MovementParams{
		ProductID: uuid.New(),
		Type:      inventory.MovementSale,
		Quantity:  1,
		Date:      time.Now(),
	})
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
}

func TestService_ListLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := inventory.NewService(repo)

	low := createProduct(t, svc, 3)
	createProduct(t, svc, 50)

	got, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)
}
