package backup_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/europemission/martha/internal/backup"
	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/event"
	"github.com/europemission/martha/internal/inventory"
	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

// memStore backs every repository interface with plain slices.
type memStore struct {
	txs       []*transaction.Transaction
	circuits  []*circuit.Circuit
	products  []*inventory.Product
	movements []*inventory.StockMovement
	events    []*event.MissionEvent
	documents []*document.GeneratedDocument
}

func (s *memStore) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.txs = append(s.txs, tx)
	return nil
}

func (s *memStore) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (s *memStore) UpdateTransaction(_ context.Context, _ *transaction.Transaction) error { return nil }
func (s *memStore) DeleteTransaction(_ context.Context, _ uuid.UUID) error                { return nil }

func (s *memStore) ListTransactions(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
	return s.txs, nil
}

func (s *memStore) ReplaceAllTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.txs = txs
	return nil
}

func (s *memStore) CreateCircuit(_ context.Context, c *circuit.Circuit) error {
	s.circuits = append(s.circuits, c)
	return nil
}

func (s *memStore) GetCircuit(_ context.Context, _ uuid.UUID) (*circuit.Circuit, error) {
	return nil, circuit.ErrNotFound
}

func (s *memStore) UpdateCircuit(_ context.Context, _ *circuit.Circuit) error { return nil }
func (s *memStore) DeleteCircuit(_ context.Context, _ uuid.UUID) error        { return nil }

func (s *memStore) ListCircuits(_ context.Context) ([]*circuit.Circuit, error) {
	return s.circuits, nil
}

func (s *memStore) ReplaceAllCircuits(_ context.Context, circuits []*circuit.Circuit) error {
	s.circuits = circuits
	return nil
}

func (s *memStore) CreateProduct(_ context.Context, p *inventory.Product) error {
	s.products = append(s.products, p)
	return nil
}

func (s *memStore) GetProduct(_ context.Context, _ uuid.UUID) (*inventory.Product, error) {
	return nil, inventory.ErrProductNotFound
}

func (s *memStore) UpdateProduct(_ context.Context, _ *inventory.Product) error { return nil }
func (s *memStore) DeleteProduct(_ context.Context, _ uuid.UUID) error          { return nil }

func (s *memStore) ListProducts(_ context.Context) ([]*inventory.Product, error) {
	return s.products, nil
}

func (s *memStore) ReplaceAllProducts(_ context.Context, products []*inventory.Product) error {
	s.products = products
	return nil
}

func (s *memStore) CreateMovement(_ context.Context, m *inventory.StockMovement) error {
	s.movements = append(s.movements, m)
	return nil
}

func (s *memStore) ListMovements(_ context.Context, _ inventory.MovementFilter) ([]*inventory.StockMovement, error) {
	return s.movements, nil
}

func (s *memStore) ReplaceAllMovements(_ context.Context, movements []*inventory.StockMovement) error {
	s.movements = movements
	return nil
}

func (s *memStore) CreateEvent(_ context.Context, e *event.MissionEvent) error {
	s.events = append(s.events, e)
	return nil
}

func (s *memStore) GetEvent(_ context.Context, _ uuid.UUID) (*event.MissionEvent, error) {
	return nil, event.ErrNotFound
}

func (s *memStore) UpdateEvent(_ context.Context, _ *event.MissionEvent) error { return nil }
func (s *memStore) DeleteEvent(_ context.Context, _ uuid.UUID) error           { return nil }

func (s *memStore) ListEvents(_ context.Context) ([]*event.MissionEvent, error) {
	return s.events, nil
}

func (s *memStore) ReplaceAllEvents(_ context.Context, events []*event.MissionEvent) error {
	s.events = events
	return nil
}

func (s *memStore) CreateDocument(_ context.Context, d *document.GeneratedDocument) error {
	s.documents = append(s.documents, d)
	return nil
}

func (s *memStore) ListDocuments(_ context.Context, _ *int) ([]*document.GeneratedDocument, error) {
	return s.documents, nil
}

func (s *memStore) ReplaceAllDocuments(_ context.Context, documents []*document.GeneratedDocument) error {
	s.documents = documents
	return nil
}

func newService(store *memStore) *backup.Service {
	return backup.NewService(store, store, store, store, store, slog.Default())
}

func seededStore() *memStore {
	date := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	circuitID := uuid.New()

	return &memStore{
		txs: []*transaction.Transaction{
			{
				ID:          uuid.New(),
				Date:        date,
				Type:        transaction.TypeReceipt,
				Category:    transaction.CategoryCircuitContribution,
				Description: "Quarterly contribution",
				Amount:      decimal.NewFromFloat(350.25),
				CircuitID:   &circuitID,
				Quarter:     period.Q2,
				Year:        2024,
				CreatedAt:   date,
				UpdatedAt:   date,
			},
		},
		circuits: []*circuit.Circuit{
			{ID: circuitID, Name: "Porto", Country: "Portugal", Active: true, CreatedAt: date},
		},
		products: []*inventory.Product{
			{
				ID:           uuid.New(),
				Name:         "Pin Badge",
				CostPrice:    decimal.NewFromFloat(1.20),
				SellingPrice: decimal.NewFromFloat(3.00),
				CurrentStock: 42,
				Category:     inventory.CategoryBadge,
				CreatedAt:    date,
				UpdatedAt:    date,
			},
		},
		events: []*event.MissionEvent{
			{ID: uuid.New(), Name: "Spring Retreat", Type: event.TypeRetreat, StartDate: date, EndDate: date.AddDate(0, 0, 2), CreatedAt: date},
		},
	}
}

func TestService_RoundTrip(t *testing.T) {
	source := seededStore()

	var buf bytes.Buffer
	require.NoError(t, newService(source).WriteTo(context.Background(), &buf))

	target := &memStore{}
	env, err := newService(target).Import(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, backup.CurrentVersion, env.Version)

	require.Len(t, target.txs, 1)
	got := target.txs[0]
	want := source.txs[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, got.Amount.Equal(want.Amount))
	require.NotNil(t, got.CircuitID)
	assert.Equal(t, *want.CircuitID, *got.CircuitID)

	require.Len(t, target.circuits, 1)
	assert.Equal(t, "Porto", target.circuits[0].Name)

	require.Len(t, target.products, 1)
	assert.Equal(t, 42, target.products[0].CurrentStock)

	require.Len(t, target.events, 1)
	assert.Equal(t, event.TypeRetreat, target.events[0].Type)
}

func TestService_Import_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NotJSON", input: "not json at all"},
		{name: "MissingVersion", input: `{"transactions": []}`},
		{name: "MissingTransactions", input: `{"version": 1}`},
		{name: "FutureVersion", input: `{"version": 99, "transactions": []}`},
		{name: "WrongShape", input: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := seededStore()

			_, err := newService(target).Import(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, backup.ErrInvalidBackup)

			// Nothing was replaced.
			assert.Len(t, target.txs, 1)
			assert.Len(t, target.circuits, 1)
		})
	}
}

func TestService_Import_HandlesBOM(t *testing.T) {
	source := seededStore()

	var buf bytes.Buffer
	require.NoError(t, newService(source).WriteTo(context.Background(), &buf))

	// Files edited on Windows often gain a UTF-8 BOM.
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, buf.Bytes()...)

	target := &memStore{}
	_, err := newService(target).Import(context.Background(), bytes.NewReader(withBOM))
	require.NoError(t, err)
	assert.Len(t, target.txs, 1)
}
