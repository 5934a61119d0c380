package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/period"
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

const selectColumns = `id, type, title, quarter, year, data, generated_at`

func scanDocument(s scanner) (*document.GeneratedDocument, error) {
	var (
		d       document.GeneratedDocument
		typeStr string
		quarter sql.NullInt64
		data    sql.NullString
	)

	if err := s.Scan(&d.ID, &typeStr, &d.Title, &quarter, &d.Year, &data, &d.GeneratedAt); err != nil {
		return nil, err
	}

	d.Type = document.Type(typeStr)
	d.Data = data.String

	if quarter.Valid {
		q := period.Quarter(quarter.Int64)
		d.Quarter = &q
	}

	return &d, nil
}

func (s *Store) CreateDocument(ctx context.Context, d *document.GeneratedDocument) error {
	var quarter any
	if d.Quarter != nil {
		quarter = int(*d.Quarter)
	}

	query := `
		INSERT INTO documents (id, type, title, quarter, year, data, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, d.ID, d.Type, d.Title, quarter, d.Year, d.Data, d.GeneratedAt); err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	return nil
}

func (s *Store) ListDocuments(ctx context.Context, year *int) ([]*document.GeneratedDocument, error) {
	query := `SELECT ` + selectColumns + ` FROM documents`

	var args []any

	if year != nil {
		query += " WHERE year = ?"
		args = append(args, *year)
	}

	query += " ORDER BY generated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.GeneratedDocument

	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (s *Store) ReplaceAllDocuments(ctx context.Context, docs []*document.GeneratedDocument) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	query := `
		INSERT INTO documents (id, type, title, quarter, year, data, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, d := range docs {
		var quarter any
		if d.Quarter != nil {
			quarter = int(*d.Quarter)
		}

		if _, err := dbTx.ExecContext(ctx, query, d.ID, d.Type, d.Title, quarter, d.Year, d.Data, d.GeneratedAt); err != nil {
			return fmt.Errorf("restoring document %s: %w", d.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}
