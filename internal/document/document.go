// Package document keeps a write-only audit trail of generated report
// exports. Stored payloads are never read back into any computation.
package document

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/period"
)

var ErrNotFound = errors.New("document not found")

type Type string

const (
	TypeQuarterlyReport Type = "quarterly_report"
	TypeAnnualReport    Type = "annual_report"
	TypeCircuitReport   Type = "circuit_report"
	TypeStockReport     Type = "stock_report"
	TypeCSVExport       Type = "csv_export"
)

// GeneratedDocument records one past export. Data holds the serialized report
// payload for reference.
type GeneratedDocument struct {
	ID          uuid.UUID       `json:"id"`
	Type        Type            `json:"type"`
	Title       string          `json:"title"`
	Quarter     *period.Quarter `json:"quarter,omitempty"`
	Year        int             `json:"year"`
	Data        string          `json:"data,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
