package kafka

import (
	"encoding/json"
	"testing"
)

func TestNewOrderCreatedEvent(t *testing.T) {
	lines := []OrderLineEvent{
		{ProductID: "p-1", PriceMinor: 500, Qty: 2},
	}

	event := NewOrderCreatedEvent("order-1", "customer-1", lines, 1000)

	if event.EventType != EventTypeOrderCreated {
		t.Errorf("expected event type %s, got %s", EventTypeOrderCreated, event.EventType)
	}
	if event.OrderID != "order-1" || event.CustomerID != "customer-1" {
		t.Errorf("unexpected identifiers: %+v", event)
	}
	if event.TotalMinor != 1000 {
		t.Errorf("expected total 1000, got %d", event.TotalMinor)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}
}

func TestOrderCreatedEvent_JSONShape(t *testing.T) {
	event := NewOrderCreatedEvent("order-1", "customer-1", nil, 0)

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if decoded["event_type"] != "order.created" {
		t.Errorf("expected event_type order.created, got %v", decoded["event_type"])
	}
	if decoded["order_id"] != "order-1" {
		t.Errorf("expected order_id order-1, got %v", decoded["order_id"])
	}
}
