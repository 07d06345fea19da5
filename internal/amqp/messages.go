package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventRecorded = "recorded"
	EventDeleted  = "deleted"
)

// TransactionEvent announces a ledger mutation. Recorded events carry only
// the transaction id; the consumer fetches the full record from the primary
// store so the queue never holds stale copies.
type TransactionEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(eventType, id string) *TransactionEvent {
	return &TransactionEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
