// Package event records mission events (retreats, conferences). Events are
// descriptive: transactions may reference them, but no aggregation depends on
// them structurally.
package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("event not found")

type Type string

const (
	TypeRetreat      Type = "retreat"
	TypeConference   Type = "conference"
	TypeInauguration Type = "inauguration"
	TypeOther        Type = "other"
)

type MissionEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
