package integration

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
	"github.com/vladislavdragonenkov/orders/internal/service/outbox"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

// capturingPublisher собирает опубликованные сообщения вместо брокера.
type capturingPublisher struct {
	mu       sync.Mutex
	messages []domain.OutboxMessage
}

func (p *capturingPublisher) Publish(msg domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturingPublisher) published() []domain.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OutboxMessage(nil), p.messages...)
}

var _ domain.OutboxPublisher = (*capturingPublisher)(nil)

func TestOrderFlow_CreateOrderAndDrainOutbox(t *testing.T) {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outboxRepo := memory.NewOutboxRepository()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	entry := logger.WithField("component", "integration-test")

	now := time.Now().UTC()
	require.NoError(t, customers.Create(domain.Customer{
		ID: "customer-1", Name: "Ivan Petrov", Email: "ivan@example.com",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, products.Create(domain.Product{
		ID: "p-1", Name: "keyboard", PriceMinor: 500, Quantity: 10,
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, products.Create(domain.Product{
		ID: "p-2", Name: "mouse", PriceMinor: 250, Quantity: 6,
		CreatedAt: now, UpdatedAt: now,
	}))

	svc := order.NewService(customers, products, orders, outboxRepo, entry)

	created, err := svc.Create(context.Background(), "customer-1", []domain.ItemRequest{
		{ProductID: "p-1", Qty: 2},
		{ProductID: "p-2", Qty: 1},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 2)

	// Остатки списаны.
	remaining, err := products.FindAllByID([]string{"p-1", "p-2"})
	require.NoError(t, err)
	for _, product := range remaining {
		switch product.ID {
		case "p-1":
			require.Equal(t, int64(8), product.Quantity)
		case "p-2":
			require.Equal(t, int64(5), product.Quantity)
		}
	}

	// Заказ читается и из списка клиента.
	listed, err := orders.ListByCustomer("customer-1", 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)

	// Outbox worker доставляет событие издателю.
	publisher := &capturingPublisher{}
	worker := outbox.NewWorker(
		outboxRepo,
		publisher,
		outbox.WithLogger(entry),
		outbox.WithRetryBaseDelay(0),
	)
	worker.ProcessOnce(context.Background())

	published := publisher.published()
	require.Len(t, published, 1)
	require.Equal(t, "order.created", published[0].EventType)
	require.Equal(t, created.ID, published[0].AggregateID)

	var payload struct {
		OrderID    string `json:"order_id"`
		CustomerID string `json:"customer_id"`
		TotalMinor int64  `json:"total_minor"`
	}
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	require.Equal(t, created.ID, payload.OrderID)
	require.Equal(t, "customer-1", payload.CustomerID)
	require.Equal(t, created.TotalMinor(), payload.TotalMinor)

	// Повторный проход не публикует дубликатов.
	worker.ProcessOnce(context.Background())
	require.Len(t, publisher.published(), 1)

	stats, err := outboxRepo.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.PendingCount)
}

func TestOrderFlow_FailedOrderLeavesNoTraces(t *testing.T) {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outboxRepo := memory.NewOutboxRepository()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	entry := logger.WithField("component", "integration-test")

	now := time.Now().UTC()
	require.NoError(t, customers.Create(domain.Customer{
		ID: "customer-1", Name: "Ivan Petrov", Email: "ivan@example.com",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, products.Create(domain.Product{
		ID: "p-1", Name: "keyboard", PriceMinor: 500, Quantity: 2,
		CreatedAt: now, UpdatedAt: now,
	}))

	svc := order.NewService(customers, products, orders, outboxRepo, entry)

	// 2 - 2 = 0 < 1: отказ без побочных эффектов.
	_, err := svc.Create(context.Background(), "customer-1", []domain.ItemRequest{
		{ProductID: "p-1", Qty: 2},
	})
	require.ErrorIs(t, err, domain.ErrOutOfStock)

	remaining, err := products.FindAllByID([]string{"p-1"})
	require.NoError(t, err)
	require.Equal(t, int64(2), remaining[0].Quantity)

	listed, err := orders.ListByCustomer("customer-1", 10)
	require.NoError(t, err)
	require.Empty(t, listed)

	stats, err := outboxRepo.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.PendingCount)
}
