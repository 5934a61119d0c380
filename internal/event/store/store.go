package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/event"
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

const selectColumns = `id, name, type, start_date, end_date, notes, created_at`

func scanEvent(s scanner) (*event.MissionEvent, error) {
	var (
		e       event.MissionEvent
		typeStr string
		notes   sql.NullString
	)

	if err := s.Scan(&e.ID, &e.Name, &typeStr, &e.StartDate, &e.EndDate, &notes, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.Type = event.Type(typeStr)
	e.Notes = notes.String

	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *event.MissionEvent) error {
	query := `
		INSERT INTO events (id, name, type, start_date, end_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, e.ID, e.Name, e.Type, e.StartDate, e.EndDate, e.Notes, e.CreatedAt); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}

	return nil
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*event.MissionEvent, error) {
	query := `SELECT ` + selectColumns + ` FROM events WHERE id = ?`

	e, err := scanEvent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, event.ErrNotFound
		}

		return nil, fmt.Errorf("getting event: %w", err)
	}

	return e, nil
}

func (s *Store) UpdateEvent(ctx context.Context, e *event.MissionEvent) error {
	query := `
		UPDATE events
		SET name = ?, type = ?, start_date = ?, end_date = ?, notes = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query, e.Name, e.Type, e.StartDate, e.EndDate, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.ErrNotFound
	}

	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]*event.MissionEvent, error) {
	query := `SELECT ` + selectColumns + ` FROM events ORDER BY start_date DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*event.MissionEvent

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

func (s *Store) ReplaceAllEvents(ctx context.Context, events []*event.MissionEvent) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}

	query := `
		INSERT INTO events (id, name, type, start_date, end_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range events {
		if _, err := dbTx.ExecContext(ctx, query, e.ID, e.Name, e.Type, e.StartDate, e.EndDate, e.Notes, e.CreatedAt); err != nil {
			return fmt.Errorf("restoring event %s: %w", e.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}

	return nil
}
