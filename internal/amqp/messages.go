package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/core"
)

// TransactionRecordedMessage announces one transaction appended to the ledger.
// Amount is the exact decimal text so consumers never see float rounding.
type TransactionRecordedMessage struct {
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionRecordedMessage creates a message for tx stamped with the current time.
func NewTransactionRecordedMessage(tx core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		Type:        tx.Type.String(),
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
