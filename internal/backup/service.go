package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/encoding"
	"github.com/europemission/martha/internal/event"
	"github.com/europemission/martha/internal/inventory"
	"github.com/europemission/martha/internal/transaction"
)

// Service snapshots and restores every store in one pass.
type Service struct {
	transactions transaction.Repository
	circuits     circuit.Repository
	inventory    inventory.Repository
	events       event.Repository
	documents    document.Repository
	logger       *slog.Logger
}

func NewService(
	transactions transaction.Repository,
	circuits circuit.Repository,
	inventory inventory.Repository,
	events event.Repository,
	documents document.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		transactions: transactions,
		circuits:     circuits,
		inventory:    inventory,
		events:       events,
		documents:    documents,
		logger:       logger,
	}
}

// Export collects the full database into an envelope.
func (s *Service) Export(ctx context.Context) (*Envelope, error) {
	txs, err := s.transactions.ListTransactions(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	circuits, err := s.circuits.ListCircuits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing circuits: %w", err)
	}

	products, err := s.inventory.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	movements, err := s.inventory.ListMovements(ctx, inventory.MovementFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	docs, err := s.documents.ListDocuments(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return &Envelope{
		Version:        CurrentVersion,
		ExportedAt:     time.Now().UTC(),
		Transactions:   txs,
		Circuits:       circuits,
		Products:       products,
		StockMovements: movements,
		Events:         events,
		Documents:      docs,
	}, nil
}

// WriteTo exports the database as indented JSON.
func (s *Service) WriteTo(ctx context.Context, w io.Writer) error {
	env, err := s.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Import validates the backup file and replaces every store with its content.
// The file is fully parsed and shape-checked before anything is touched, so a
// bad file never leaves the database partially restored.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Envelope, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var probe struct {
		Version      int             `json:"version"`
		Transactions json.RawMessage `json:"transactions"`
	}

	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if probe.Version == 0 || probe.Transactions == nil {
		return nil, fmt.Errorf("%w: missing version or transactions", ErrInvalidBackup)
	}

	if probe.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidBackup, probe.Version)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if err := s.restore(ctx, &env); err != nil {
		return nil, err
	}

	s.logger.Info("backup restored",
		"transactions", len(env.Transactions),
		"circuits", len(env.Circuits),
		"products", len(env.Products),
		"movements", len(env.StockMovements),
		"events", len(env.Events),
		"documents", len(env.Documents),
	)

	return &env, nil
}

func (s *Service) restore(ctx context.Context, env *Envelope) error {
	if err := s.circuits.ReplaceAllCircuits(ctx, env.Circuits); err != nil {
		return fmt.Errorf("restoring circuits: %w", err)
	}

	if err := s.events.ReplaceAllEvents(ctx, env.Events); err != nil {
		return fmt.Errorf("restoring events: %w", err)
	}

	if err := s.inventory.ReplaceAllProducts(ctx, env.Products); err != nil {
		return fmt.Errorf("restoring products: %w", err)
	}

	if err := s.inventory.ReplaceAllMovements(ctx, env.StockMovements); err != nil {
		return fmt.Errorf("restoring stock movements: %w", err)
	}

	if err := s.transactions.ReplaceAllTransactions(ctx, env.Transactions); err != nil {
		return fmt.Errorf("restoring transactions: %w", err)
	}

	if err := s.documents.ReplaceAllDocuments(ctx, env.Documents); err != nil {
		return fmt.Errorf("restoring documents: %w", err)
	}

	return nil
}
