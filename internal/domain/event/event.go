package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// Event is emitted after every state change, carrying the snapshot that is now current
type Event struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Operation string          `json:"operation"`
	History   HistoryMode     `json:"history"`
	Snapshot  entity.Snapshot `json:"snapshot"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp.
// The snapshot is cloned so handlers cannot reach back into the store.
func NewEvent(eventType Type, operation string, snapshot entity.Snapshot) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Operation: operation,
		History:   HistoryModeFor(eventType),
		Snapshot:  snapshot.Clone(),
		Timestamp: time.Now(),
	}
}

