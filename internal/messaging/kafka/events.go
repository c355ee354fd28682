package kafka

import "time"

// EventType определяет тип события.
type EventType string

const (
	// EventTypeOrderCreated публикуется после успешного оформления заказа.
	EventTypeOrderCreated EventType = "order.created"
	// EventTypeStockUpdated публикуется после атомарного списания остатков.
	EventTypeStockUpdated EventType = "stock.updated"
)

// Topics для Kafka.
const (
	TopicOrderEvents = "orders.order.events"
	TopicStockEvents = "orders.stock.events"
)

// OrderLineEvent — позиция заказа в публикуемом событии.
type OrderLineEvent struct {
	ProductID  string `json:"product_id"`
	PriceMinor int64  `json:"price_minor"`
	Qty        int64  `json:"qty"`
}

// OrderCreatedEvent описывает оформленный заказ для внешних потребителей.
type OrderCreatedEvent struct {
	EventType  EventType        `json:"event_type"`
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	Lines      []OrderLineEvent `json:"lines"`
	TotalMinor int64            `json:"total_minor"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewOrderCreatedEvent создаёт событие об оформленном заказе.
func NewOrderCreatedEvent(orderID, customerID string, lines []OrderLineEvent, totalMinor int64) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventType:  EventTypeOrderCreated,
		OrderID:    orderID,
		CustomerID: customerID,
		Lines:      lines,
		TotalMinor: totalMinor,
		Timestamp:  time.Now().UTC(),
	}
}
