// Package inventory tracks merchandise products and the stock movements that
// determine each product's quantity on hand.
package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/period"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrMovementNotFound = errors.New("stock movement not found")
)

// ProductCategory is a closed enumeration of merchandise kinds.
type ProductCategory string

const (
	CategoryRegalia     ProductCategory = "regalia"
	CategoryBadge       ProductCategory = "badge"
	CategoryClothing    ProductCategory = "clothing"
	CategoryPublication ProductCategory = "publication"
	CategoryAccessory   ProductCategory = "accessory"
)

// ProductCategories lists all valid product categories.
var ProductCategories = []ProductCategory{
	CategoryRegalia,
	CategoryBadge,
	CategoryClothing,
	CategoryPublication,
	CategoryAccessory,
}

// Product is a merchandise item. CurrentStock is a derived value: it is
// recomputed from the full movement history after every recorded movement and
// is never allowed below zero.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CurrentStock int             `json:"currentStock"`
	ReorderLevel int             `json:"reorderLevel"`
	Category     ProductCategory `json:"category"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LowStock reports whether the product is at or below its reorder level.
func (p *Product) LowStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}

// MovementType classifies a stock movement. Purchases and adjustments add to
// stock, sales subtract.
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
)

// ValidMovementType reports whether t is a known movement type.
func ValidMovementType(t MovementType) bool {
	return t == MovementPurchase || t == MovementSale || t == MovementAdjustment
}

// StockMovement is one recorded change to a product's quantity on hand.
type StockMovement struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"productId"`
	Type          MovementType    `json:"type"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	CircuitID     *uuid.UUID      `json:"circuitId,omitempty"`
	TransactionID *uuid.UUID      `json:"transactionId,omitempty"`
	Date          time.Time       `json:"date"`
	Quarter       period.Quarter  `json:"quarter"`
	Year          int             `json:"year"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SignedQuantity is the movement's effect on stock: negative for sales,
// positive otherwise.
func (m *StockMovement) SignedQuantity() int {
	if m.Type == MovementSale {
		return -m.Quantity
	}

	return m.Quantity
}

// StockOnHand folds a product's movements into its quantity on hand:
// max(0, Σ signed quantity). Movements commute under addition, so the result
// is independent of order.
func StockOnHand(movements []*StockMovement) int {
	total := 0
	for _, m := range movements {
		total += m.SignedQuantity()
	}

	if total < 0 {
		return 0
	}

	return total
}
