package amqp

import (
	"encoding/json"
	"time"
)

// Operations carried by a transaction event.
const (
	OpCreated = "created"
	OpDeleted = "deleted"
)

// TransactionEventMessage is a lightweight notification that a transaction
// changed. It carries only identifiers; the export worker fetches the full
// row from the database when it needs one.
type TransactionEventMessage struct {
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(op, owner, id string) *TransactionEventMessage {
	return &TransactionEventMessage{
		Op:        op,
		ID:        id,
		Owner:     owner,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
