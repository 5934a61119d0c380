// Package store persists transactions in the embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, date, type, category, description, amount, circuit_id, event_id,
	quarter, year, items, notes, created_at, updated_at
`

// scanTransaction reads a transaction row in selectColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx        transaction.Transaction
		typeStr   string
		catStr    string
		circuitID uuid.NullUUID
		eventID   uuid.NullUUID
		items     sql.NullString
		notes     sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &typeStr, &catStr, &tx.Description, &tx.Amount,
		&circuitID, &eventID, &tx.Quarter, &tx.Year, &items, &notes,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Category = transaction.Category(catStr)
	tx.Notes = notes.String

	if circuitID.Valid {
		id := circuitID.UUID
		tx.CircuitID = &id
	}

	if eventID.Valid {
		id := eventID.UUID
		tx.EventID = &id
	}

	if items.Valid && items.String != "" {
		if err := json.Unmarshal([]byte(items.String), &tx.Items); err != nil {
			return nil, fmt.Errorf("decoding items: %w", err)
		}
	}

	return &tx, nil
}

func itemsJSON(tx *transaction.Transaction) (any, error) {
	if len(tx.Items) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(tx.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}

	return string(b), nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	items, err := itemsJSON(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, date, type, category, description, amount, circuit_id, event_id, quarter, year, items, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		tx.ID, tx.Date, tx.Type, tx.Category, tx.Description, tx.Amount,
		nullUUID(tx.CircuitID), nullUUID(tx.EventID), tx.Quarter, tx.Year,
		items, tx.Notes, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = ?`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE 1=1`

	var args []any

	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, *filter.Type)
	}

	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, *filter.Category)
	}

	if filter.CircuitID != nil {
		query += " AND circuit_id = ?"
		args = append(args, *filter.CircuitID)
	}

	if filter.Quarter != nil {
		query += " AND quarter = ?"
		args = append(args, *filter.Quarter)
	}

	if filter.Year != nil {
		query += " AND year = ?"
		args = append(args, *filter.Year)
	}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}

	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	items, err := itemsJSON(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET date = ?, type = ?, category = ?, description = ?, amount = ?,
			circuit_id = ?, event_id = ?, quarter = ?, year = ?, items = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Date, tx.Type, tx.Category, tx.Description, tx.Amount,
		nullUUID(tx.CircuitID), nullUUID(tx.EventID), tx.Quarter, tx.Year,
		items, tx.Notes, tx.UpdatedAt, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// ReplaceAllTransactions swaps the entire collection inside one database
// transaction. Used by backup restore only.
func (s *Store) ReplaceAllTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	query := `
		INSERT INTO transactions (id, date, type, category, description, amount, circuit_id, event_id, quarter, year, items, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, tx := range txs {
		items, err := itemsJSON(tx)
		if err != nil {
			return err
		}

		if _, err := dbTx.ExecContext(ctx, query,
			tx.ID, tx.Date, tx.Type, tx.Category, tx.Description, tx.Amount,
			nullUUID(tx.CircuitID), nullUUID(tx.EventID), tx.Quarter, tx.Year,
			items, tx.Notes, tx.CreatedAt, tx.UpdatedAt,
		); err != nil {
			return fmt.Errorf("restoring transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}
