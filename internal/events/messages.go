package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys for distribution lifecycle messages.
const (
	KeyDistributionCompleted = "distribution.completed"
	KeyDistributionReversed  = "distribution.reversed"
)

// DistributionMessage notifies consumers about a distribution batch.
// It carries only identifiers and the total, consumers fetch details
// from the API if they need them.
type DistributionMessage struct {
	HistoryID   uuid.UUID       `json:"historyId"`
	UserID      uuid.UUID       `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Timestamp   time.Time       `json:"timestamp"`
}

func NewDistributionMessage(historyID, userID uuid.UUID, total decimal.Decimal) *DistributionMessage {
	return &DistributionMessage{
		HistoryID:   historyID,
		UserID:      userID,
		TotalAmount: total,
		Timestamp:   time.Now(),
	}
}

func (m *DistributionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DistributionMessageFromJSON(data []byte) (*DistributionMessage, error) {
	var msg DistributionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
