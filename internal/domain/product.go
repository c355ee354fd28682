package domain

import "time"

// Product — товар с остатком на складе. Остаток меняется только
// операцией UpdateQuantities репозитория товаров.
type Product struct {
	ID   string
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (копейки/центы).
	PriceMinor int64
	// Quantity — остаток на складе; не может быть отрицательным.
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemRequest — пара (товар, количество) из запроса на создание заказа
// или на списание остатков.
type ItemRequest struct {
	ProductID string
	Qty       int64
}

// CollapseItems сворачивает дубликаты позиций в отображение product_id -> qty.
// Политика намеренно last-write-wins: повторное упоминание товара в запросе
// перезаписывает количество, а не суммируется с предыдущим. Запрос
// [{A,1},{A,3}] эквивалентен запросу [{A,3}].
func CollapseItems(items []ItemRequest) map[string]int64 {
	result := make(map[string]int64, len(items))
	for _, item := range items {
		result[item.ProductID] = item.Qty
	}
	return result
}

// DistinctProductIDs возвращает уникальные идентификаторы товаров
// в порядке первого упоминания.
func DistinctProductIDs(items []ItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ValidateItems проверяет позиции запроса перед обработкой.
func ValidateItems(items []ItemRequest) error {
	if len(items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range items {
		if item.ProductID == "" {
			return ErrProductIDRequired
		}
		if item.Qty <= 0 {
			return ErrItemQtyInvalid
		}
	}
	return nil
}
