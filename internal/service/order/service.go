package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

const aggregateTypeOrder = "order"

// Service оформляет заказы: проверяет клиента и остатки, атомарно
// списывает склад и сохраняет заказ как одну логическую операцию.
// При любом отказе до записи заказа хранилище остаётся нетронутым.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService конструирует сервис с зависимостями. Outbox опционален:
// при nil события заказов не публикуются.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		outbox:    outbox,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// Create оформляет заказ клиента по списку позиций (product_id, qty).
//
// Дубликаты товара в запросе сворачиваются по принципу last-write-wins:
// последняя встреченная позиция перезаписывает количество, суммирования нет.
// Ошибкой batch-поиска товаров считается только полностью пустой результат;
// частично найденный набор валиден, и ненайденные товары молча выпадают
// из итогового заказа.
func (s *Service) Create(ctx context.Context, customerID string, items []domain.ItemRequest) (domain.Order, error) {
	order, err := s.create(ctx, customerID, items)
	if err != nil {
		s.metrics.RecordOrderFailed(string(domain.KindOf(err)))
		return domain.Order{}, err
	}

	s.metrics.RecordOrderCreated(len(order.Lines))
	return order, nil
}

func (s *Service) create(_ context.Context, customerID string, items []domain.ItemRequest) (domain.Order, error) {
	if customerID == "" {
		return domain.Order{}, domain.ErrCustomerIDRequired
	}
	if err := domain.ValidateItems(items); err != nil {
		return domain.Order{}, err
	}

	customer, err := s.customers.FindByID(customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Order{}, domain.ErrCustomerNotFound
		}
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to resolve customer")
		return domain.Order{}, fmt.Errorf("resolve customer: %w", err)
	}

	requested := domain.CollapseItems(items)

	products, err := s.products.FindAllByID(domain.DistinctProductIDs(items))
	if err != nil {
		s.logger.WithError(err).Error("failed to resolve products")
		return domain.Order{}, fmt.Errorf("resolve products: %w", err)
	}
	if len(products) == 0 {
		return domain.Order{}, domain.ErrProductsNotFound
	}

	now := time.Now().UTC()
	lines := make([]domain.OrderLine, 0, len(products))
	for _, product := range products {
		// Порог именно < 1: после заказа на складе должна остаться
		// хотя бы одна единица, последняя не продаётся.
		if product.Quantity-requested[product.ID] < 1 {
			return domain.Order{}, &domain.OutOfStockError{ProductName: product.Name}
		}

		lines = append(lines, domain.OrderLine{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			PriceMinor: product.PriceMinor,
			Qty:        requested[product.ID],
			CreatedAt:  now,
		})
	}

	// Списание атомарно по всему батчу и повторно проверяет остатки под
	// блокировкой хранилища, поэтому гонка между чтением выше и записью
	// здесь не приводит к отрицательному складу.
	started := time.Now()
	if _, err := s.products.UpdateQuantities(items); err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			return domain.Order{}, err
		}
		s.logger.WithError(err).Error("failed to update stock quantities")
		return domain.Order{}, fmt.Errorf("update quantities: %w", err)
	}
	s.metrics.RecordStockUpdateDuration(time.Since(started))

	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		// Остатки уже списаны, а заказ не записан. Возвращаем списанное
		// на склад, иначе остатки разойдутся с заказами.
		s.compensateStock(items)
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.enqueueCreatedEvent(order)

	return order, nil
}

// compensateStock возвращает на склад количества из неудавшегося заказа.
// Алгоритм списания симметричен: отрицательное количество увеличивает остаток.
func (s *Service) compensateStock(items []domain.ItemRequest) {
	collapsed := domain.CollapseItems(items)
	restock := make([]domain.ItemRequest, 0, len(collapsed))
	for id, qty := range collapsed {
		restock = append(restock, domain.ItemRequest{ProductID: id, Qty: -qty})
	}

	if _, err := s.products.UpdateQuantities(restock); err != nil {
		// Компенсация не удалась: остатки занижены. Дальше только руками.
		s.logger.WithError(err).Error("stock compensation failed, quantities are inconsistent")
		return
	}
	s.metrics.RecordCompensation()
}

func (s *Service) enqueueCreatedEvent(order domain.Order) {
	if s.outbox == nil {
		return
	}

	lines := make([]kafka.OrderLineEvent, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, kafka.OrderLineEvent{
			ProductID:  line.ProductID,
			PriceMinor: line.PriceMinor,
			Qty:        line.Qty,
		})
	}

	payload, err := json.Marshal(kafka.NewOrderCreatedEvent(order.ID, order.CustomerID, lines, order.TotalMinor()))
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to encode order created event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order created event")
	}
}
