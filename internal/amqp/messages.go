package amqp

import (
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"
)

var ErrInvalidMessage = errors.New("invalid change message")

// ChangeMessage announces a committed ledger mutation. It carries no entity
// payload; consumers re-read the store.
type ChangeMessage struct {
	Operation  string    `json:"operation"`
	Collection string    `json:"collection"`
	EntityID   string    `json:"entityId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(ev core.ChangeEvent) *ChangeMessage {
	ts := ev.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &ChangeMessage{
		Operation:  ev.Operation,
		Collection: ev.Collection,
		EntityID:   ev.EntityID,
		Timestamp:  ts,
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a delivery body. Operation and collection
// are required.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Operation == "" || msg.Collection == "" {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}
