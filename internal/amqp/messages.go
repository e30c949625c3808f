package amqp

import (
	"encoding/json"
	"time"
)

// PortfolioImportMessage announces a freshly persisted import batch. It is
// intentionally small: the worker fetches the full batch from the database.
type PortfolioImportMessage struct {
	BatchID   int64     `json:"batch_id"`
	Drugs     int       `json:"drugs"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPortfolioImportMessage(batchID int64, drugs int) *PortfolioImportMessage {
	return &PortfolioImportMessage{
		BatchID:   batchID,
		Drugs:     drugs,
		Timestamp: time.Now(),
	}
}

func (m *PortfolioImportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PortfolioImportMessageFromJSON(data []byte) (*PortfolioImportMessage, error) {
	var msg PortfolioImportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
