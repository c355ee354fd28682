package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
// Атомарность UpdateQuantities обеспечивается единым мьютексом: батч
// проверяется и фиксируется целиком, пока блокировка удерживается.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// FindByName возвращает товар по имени или ErrProductNotFound.
func (r *productRepositoryInMemory) FindByName(name string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.items {
		if product.Name == name {
			return product, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// FindAllByID возвращает найденные товары в порядке запрошенных идентификаторов.
// Отсутствующие идентификаторы молча пропускаются: частичный результат валиден.
func (r *productRepositoryInMemory) FindAllByID(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// Create сохраняет новый товар, проверяя уникальность ID и имени.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range r.items {
		if existing.Name == product.Name {
			return domain.ErrAlreadyExists
		}
	}
	r.items[product.ID] = product
	return nil
}

// UpdateQuantities атомарно списывает остатки по всем позициям батча.
// Дубликаты позиций сворачиваются last-write-wins. Сначала валидируется
// весь батч на копиях, и только потом изменения фиксируются: при отказе
// ни один остаток не меняется.
func (r *productRepositoryInMemory) UpdateQuantities(items []domain.ItemRequest) ([]domain.Product, error) {
	requested := domain.CollapseItems(items)

	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	updated := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := r.items[id]
		if !ok {
			// Неизвестные товары пропускаются, как и при batch-поиске.
			continue
		}

		remaining := product.Quantity - requested[id]
		// Порог именно < 1: последняя единица остатка не продаётся.
		if remaining < 1 {
			return nil, &domain.OutOfStockError{ProductName: product.Name}
		}

		product.Quantity = remaining
		product.UpdatedAt = now
		updated = append(updated, product)
	}

	for _, product := range updated {
		r.items[product.ID] = product
	}

	return updated, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
