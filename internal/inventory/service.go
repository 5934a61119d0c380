package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/period"
)

type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context) ([]*Product, error)
	ReplaceAllProducts(ctx context.Context, products []*Product) error

	CreateMovement(ctx context.Context, m *StockMovement) error
	ListMovements(ctx context.Context, filter MovementFilter) ([]*StockMovement, error)
	ReplaceAllMovements(ctx context.Context, movements []*StockMovement) error
}

// MovementFilter narrows a movement listing. Nil fields are ignored.
type MovementFilter struct {
	ProductID *uuid.UUID
	Quarter   *period.Quarter
	Year      *int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ProductParams struct {
	Name         string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	ReorderLevel int
	Category     ProductCategory
	InitialStock int
}

func (s *Service) CreateProduct(ctx context.Context, params ProductParams) (*Product, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}

	if params.CostPrice.IsNegative() || params.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("prices cannot be negative")
	}

	now := time.Now().UTC()
	p := &Product{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		CostPrice:    params.CostPrice,
		SellingPrice: params.SellingPrice,
		CurrentStock: max(0, params.InitialStock),
		ReorderLevel: params.ReorderLevel,
		Category:     params.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	// Initial stock is recorded as an adjustment movement so that refolding the
	// movement history reproduces it instead of erasing it.
	if params.InitialStock > 0 {
		m := &StockMovement{
			ID:        uuid.New(),
			ProductID: p.ID,
			Type:      MovementAdjustment,
			Quantity:  params.InitialStock,
			UnitPrice: params.CostPrice,
			Date:      now,
			Quarter:   period.Of(now),
			Year:      now.Year(),
			Notes:     "initial stock",
			CreatedAt: now,
		}

		if err := s.repo.CreateMovement(ctx, m); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	p.UpdatedAt = time.Now().UTC()

	return s.repo.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

// ListLowStock returns products at or below their reorder level.
func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	var low []*Product

	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}

	return low, nil
}

type MovementParams struct {
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      int
	UnitPrice     decimal.Decimal
	CircuitID     *uuid.UUID
	TransactionID *uuid.UUID
	Date          time.Time
	Notes         string
}

// MovementResult reports the recorded movement and the product's refreshed
// stock. OverSale is set when a sale exceeded the stock on hand at the time of
// recording; the movement is still recorded and the visible stock floors at
// zero.
type MovementResult struct {
	Movement *StockMovement
	Stock    int
	OverSale bool
}

// RecordMovement persists a stock movement and recomputes the owning product's
// quantity on hand from its full movement history.
func (s *Service) RecordMovement(ctx context.Context, params MovementParams) (*MovementResult, error) {
	if params.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	if !ValidMovementType(params.Type) {
		return nil, fmt.Errorf("unknown movement type %q", params.Type)
	}

	if params.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}

	product, err := s.repo.GetProduct(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	overSale := params.Type == MovementSale && params.Quantity > product.CurrentStock

	m := &StockMovement{
		ID:            uuid.New(),
		ProductID:     params.ProductID,
		Type:          params.Type,
		Quantity:      params.Quantity,
		UnitPrice:     params.UnitPrice,
		CircuitID:     params.CircuitID,
		TransactionID: params.TransactionID,
		Date:          params.Date,
		Quarter:       period.Of(params.Date),
		Year:          params.Date.Year(),
		Notes:         params.Notes,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return nil, err
	}

	stock, err := s.Recalculate(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	return &MovementResult{Movement: m, Stock: stock, OverSale: overSale}, nil
}

// Recalculate refolds every movement of the product into its stock on hand and
// overwrites the stored value. Idempotent, and self-healing after edits.
func (s *Service) Recalculate(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	movements, err := s.repo.ListMovements(ctx, MovementFilter{ProductID: &productID})
	if err != nil {
		return 0, err
	}

	product.CurrentStock = StockOnHand(movements)
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return 0, err
	}

	return product.CurrentStock, nil
}

func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]*StockMovement, error) {
	return s.repo.ListMovements(ctx, filter)
}
