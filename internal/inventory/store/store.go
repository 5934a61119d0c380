package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/inventory"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, name, cost_price, selling_price, current_stock, reorder_level, category, created_at, updated_at`

func scanProduct(s scanner) (*inventory.Product, error) {
	var (
		p      inventory.Product
		catStr string
	)

	if err := s.Scan(
		&p.ID, &p.Name, &p.CostPrice, &p.SellingPrice, &p.CurrentStock,
		&p.ReorderLevel, &catStr, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Category = inventory.ProductCategory(catStr)

	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *inventory.Product) error {
	query := `
		INSERT INTO products (id, name, cost_price, selling_price, current_stock, reorder_level, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.CostPrice, p.SellingPrice, p.CurrentStock,
		p.ReorderLevel, p.Category, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, inventory.ErrProductNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *inventory.Product) error {
	query := `
		UPDATE products
		SET name = ?, cost_price = ?, selling_price = ?, current_stock = ?, reorder_level = ?, category = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		p.Name, p.CostPrice, p.SellingPrice, p.CurrentStock,
		p.ReorderLevel, p.Category, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return inventory.ErrProductNotFound
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return inventory.ErrProductNotFound
	}

	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*inventory.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (s *Store) ReplaceAllProducts(ctx context.Context, products []*inventory.Product) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}

	query := `
		INSERT INTO products (id, name, cost_price, selling_price, current_stock, reorder_level, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, p := range products {
		if _, err := dbTx.ExecContext(ctx, query,
			p.ID, p.Name, p.CostPrice, p.SellingPrice, p.CurrentStock,
			p.ReorderLevel, p.Category, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("restoring product %s: %w", p.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}

const movementColumns = `id, product_id, type, quantity, unit_price, circuit_id, transaction_id, date, quarter, year, notes, created_at`

func scanMovement(s scanner) (*inventory.StockMovement, error) {
	var (
		m         inventory.StockMovement
		typeStr   string
		circuitID uuid.NullUUID
		txID      uuid.NullUUID
		notes     sql.NullString
	)

	if err := s.Scan(
		&m.ID, &m.ProductID, &typeStr, &m.Quantity, &m.UnitPrice,
		&circuitID, &txID, &m.Date, &m.Quarter, &m.Year, &notes, &m.CreatedAt,
	); err != nil {
		return nil, err
	}

	m.Type = inventory.MovementType(typeStr)
	m.Notes = notes.String

	if circuitID.Valid {
		id := circuitID.UUID
		m.CircuitID = &id
	}

	if txID.Valid {
		id := txID.UUID
		m.TransactionID = &id
	}

	return &m, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (s *Store) CreateMovement(ctx context.Context, m *inventory.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, unit_price, circuit_id, transaction_id, date, quarter, year, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.UnitPrice,
		nullUUID(m.CircuitID), nullUUID(m.TransactionID),
		m.Date, m.Quarter, m.Year, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating stock movement: %w", err)
	}

	return nil
}

func (s *Store) ListMovements(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`

	var args []any

	if filter.ProductID != nil {
		query += " AND product_id = ?"
		args = append(args, *filter.ProductID)
	}

	if filter.Quarter != nil {
		query += " AND quarter = ?"
		args = append(args, *filter.Quarter)
	}

	if filter.Year != nil {
		query += " AND year = ?"
		args = append(args, *filter.Year)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*inventory.StockMovement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning stock movement: %w", err)
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock movements: %w", err)
	}

	return movements, nil
}

func (s *Store) ReplaceAllMovements(ctx context.Context, movements []*inventory.StockMovement) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM stock_movements`); err != nil {
		return fmt.Errorf("clearing stock movements: %w", err)
	}

	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, unit_price, circuit_id, transaction_id, date, quarter, year, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, m := range movements {
		if _, err := dbTx.ExecContext(ctx, query,
			m.ID, m.ProductID, m.Type, m.Quantity, m.UnitPrice,
			nullUUID(m.CircuitID), nullUUID(m.TransactionID),
			m.Date, m.Quarter, m.Year, m.Notes, m.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring stock movement %s: %w", m.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}
