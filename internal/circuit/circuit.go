// Package circuit manages the organizational branches tracked for
// contribution and purchase accounting.
package circuit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a circuit does not exist.
var ErrNotFound = errors.New("circuit not found")

// Circuit is a branch or region of the organization. Transactions and stock
// movements reference circuits by ID; deleting a circuit never cascades, so
// references may dangle and are displayed as "Unknown".
type Circuit struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Country       string    `json:"country"`
	SubBranches   []string  `json:"subBranches,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}
