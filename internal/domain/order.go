package domain

import "time"

// OrderLine — одна позиция заказа.
type OrderLine struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// ProductID — ссылка на товар.
	ProductID string
	// PriceMinor — снимок цены за единицу на момент оформления заказа.
	// Последующие изменения цены товара на заказ не влияют.
	PriceMinor int64
	// Qty — количество единиц товара, всегда >= 1.
	Qty int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order ссылается ровно на одного клиента и после создания неизменяем:
// операций обновления или удаления заказа ядро не определяет.
type Order struct {
	ID         string
	CustomerID string
	Lines      []OrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TotalMinor возвращает сумму заказа по позициям: qty * price.
func (o *Order) TotalMinor() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Qty * line.PriceMinor
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerIDRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	for _, line := range o.Lines {
		if line.ProductID == "" {
			errs = append(errs, ErrProductIDRequired)
		}
		if line.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	return errs
}
