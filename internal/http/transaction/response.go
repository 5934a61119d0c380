package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/period"
	"github.com/europemission/martha/internal/transaction"
)

type itemResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type transactionResponse struct {
	ID          uuid.UUID            `json:"id"`
	Date        time.Time            `json:"date"`
	Type        transaction.Type     `json:"type"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	CircuitID   *uuid.UUID           `json:"circuitId,omitempty"`
	EventID     *uuid.UUID           `json:"eventId,omitempty"`
	Quarter     period.Quarter       `json:"quarter"`
	Year        int                  `json:"year"`
	Items       []itemResponse       `json:"items,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      tx.Amount,
		CircuitID:   tx.CircuitID,
		EventID:     tx.EventID,
		Quarter:     tx.Quarter,
		Year:        tx.Year,
		Notes:       tx.Notes,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}

	for _, it := range tx.Items {
		resp.Items = append(resp.Items, itemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
