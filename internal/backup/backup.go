// Package backup exports and restores the entire database as a versioned JSON
// file. Restores are destructive: every table is replaced wholesale.
package backup

import (
	"errors"
	"time"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/document"
	"github.com/europemission/martha/internal/event"
	"github.com/europemission/martha/internal/inventory"
	"github.com/europemission/martha/internal/transaction"
)

// CurrentVersion is written to every export and checked on import.
const CurrentVersion = 1

// ErrInvalidBackup marks files that are not recognizable backups. Nothing is
// restored when it is returned.
var ErrInvalidBackup = errors.New("invalid backup file")

// Envelope is the on-disk backup format.
type Envelope struct {
	Version        int                            `json:"version"`
	ExportedAt     time.Time                      `json:"exportedAt"`
	Transactions   []*transaction.Transaction     `json:"transactions"`
	Circuits       []*circuit.Circuit             `json:"circuits"`
	Products       []*inventory.Product           `json:"products"`
	StockMovements []*inventory.StockMovement     `json:"stockMovements"`
	Events         []*event.MissionEvent          `json:"events"`
	Documents      []*document.GeneratedDocument  `json:"documents"`
}
