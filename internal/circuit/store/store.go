package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/circuit"
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

const selectColumns = `id, name, country, sub_branches, contact_person, active, created_at`

func scanCircuit(s scanner) (*circuit.Circuit, error) {
	var (
		c        circuit.Circuit
		branches sql.NullString
		contact  sql.NullString
	)

	if err := s.Scan(&c.ID, &c.Name, &c.Country, &branches, &contact, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.ContactPerson = contact.String

	if branches.Valid && branches.String != "" {
		if err := json.Unmarshal([]byte(branches.String), &c.SubBranches); err != nil {
			return nil, fmt.Errorf("decoding sub branches: %w", err)
		}
	}

	return &c, nil
}

func branchesJSON(c *circuit.Circuit) (any, error) {
	if len(c.SubBranches) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(c.SubBranches)
	if err != nil {
		return nil, fmt.Errorf("encoding sub branches: %w", err)
	}

	return string(b), nil
}

func (s *Store) CreateCircuit(ctx context.Context, c *circuit.Circuit) error {
	branches, err := branchesJSON(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO circuits (id, name, country, sub_branches, contact_person, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Country, branches, c.ContactPerson, c.Active, c.CreatedAt); err != nil {
		return fmt.Errorf("creating circuit: %w", err)
	}

	return nil
}

func (s *Store) GetCircuit(ctx context.Context, id uuid.UUID) (*circuit.Circuit, error) {
	query := `SELECT ` + selectColumns + ` FROM circuits WHERE id = ?`

	c, err := scanCircuit(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, circuit.ErrNotFound
		}

		return nil, fmt.Errorf("getting circuit: %w", err)
	}

	return c, nil
}

func (s *Store) UpdateCircuit(ctx context.Context, c *circuit.Circuit) error {
	branches, err := branchesJSON(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE circuits
		SET name = ?, country = ?, sub_branches = ?, contact_person = ?, active = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query, c.Name, c.Country, branches, c.ContactPerson, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("updating circuit: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return circuit.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteCircuit(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM circuits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting circuit: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return circuit.ErrNotFound
	}

	return nil
}

func (s *Store) ListCircuits(ctx context.Context) ([]*circuit.Circuit, error) {
	query := `SELECT ` + selectColumns + ` FROM circuits ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing circuits: %w", err)
	}
	defer rows.Close()

	var circuits []*circuit.Circuit

	for rows.Next() {
		c, err := scanCircuit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning circuit: %w", err)
		}

		circuits = append(circuits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating circuits: %w", err)
	}

	return circuits, nil
}

func (s *Store) ReplaceAllCircuits(ctx context.Context, circuits []*circuit.Circuit) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM circuits`); err != nil {
		return fmt.Errorf("clearing circuits: %w", err)
	}

	query := `
		INSERT INTO circuits (id, name, country, sub_branches, contact_person, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, c := range circuits {
		branches, err := branchesJSON(c)
		if err != nil {
			return err
		}

		if _, err := dbTx.ExecContext(ctx, query, c.ID, c.Name, c.Country, branches, c.ContactPerson, c.Active, c.CreatedAt); err != nil {
			return fmt.Errorf("restoring circuit %s: %w", c.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}
