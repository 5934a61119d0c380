package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/period"
)

// itemSumTolerance absorbs rounding noise when comparing a transaction amount
// against the sum of its line items.
var itemSumTolerance = decimal.New(1, -6)

type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ReplaceAllTransactions(ctx context.Context, txs []*Transaction) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date        time.Time
	Type        Type
	Category    Category
	Description string
	Amount      decimal.Decimal
	CircuitID   *uuid.UUID
	EventID     *uuid.UUID
	Items       []Item
	Notes       string
}

// ListFilter narrows a transaction listing. Nil fields are ignored.
type ListFilter struct {
	Type      *Type
	Category  *Category
	CircuitID *uuid.UUID
	Quarter   *period.Quarter
	Year      *int
	StartDate *time.Time
	EndDate   *time.Time
}

// Create validates the params, derives quarter and year from the date, and
// persists a new transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &Transaction{
		ID:          uuid.New(),
		Date:        params.Date,
		Type:        params.Type,
		Category:    params.Category,
		Description: strings.TrimSpace(params.Description),
		Amount:      params.Amount,
		CircuitID:   params.CircuitID,
		EventID:     params.EventID,
		Quarter:     period.Of(params.Date),
		Year:        params.Date.Year(),
		Items:       withItemTotals(params.Items),
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Update revalidates the transaction and re-derives quarter/year so they can
// never drift from the date.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if err := validate(CreateParams{
		Date:        tx.Date,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      tx.Amount,
		Items:       tx.Items,
	}); err != nil {
		return err
	}

	tx.Quarter = period.Of(tx.Date)
	tx.Year = tx.Date.Year()
	tx.Items = withItemTotals(tx.Items)
	tx.UpdatedAt = time.Now().UTC()

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListQuarter returns all transactions recorded for a quarter and year.
func (s *Service) ListQuarter(ctx context.Context, q period.Quarter, year int) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{Quarter: &q, Year: &year})
}

func validate(params CreateParams) error {
	if params.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}

	if params.Type != TypeReceipt && params.Type != TypePayment {
		return &ValidationError{Field: "type", Message: "must be receipt or payment"}
	}

	if !ValidCategory(params.Category, params.Type) {
		return &ValidationError{Field: "category", Message: "not valid for " + string(params.Type) + " transactions"}
	}

	if strings.TrimSpace(params.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}

	if !params.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}

	if len(params.Items) > 0 {
		sum := decimal.Zero
		for _, item := range params.Items {
			if item.Quantity <= 0 {
				return &ValidationError{Field: "items", Message: "item quantity must be positive"}
			}

			sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		if sum.Sub(params.Amount).Abs().GreaterThan(itemSumTolerance) {
			return &ValidationError{Field: "amount", Message: "must equal the sum of item totals"}
		}
	}

	return nil
}

func withItemTotals(items []Item) []Item {
	for i, item := range items {
		items[i].Total = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}

	return items
}
