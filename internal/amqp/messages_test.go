package amqp

import (
	"testing"
	"time"
)

func TestPortfolioImportMessageJSON(t *testing.T) {
	msg := NewPortfolioImportMessage(42, 3)
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := PortfolioImportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.BatchID != 42 || got.Drugs != 3 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Fatalf("timestamp drifted: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestPortfolioImportMessageFromJSONInvalid(t *testing.T) {
	if _, err := PortfolioImportMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
