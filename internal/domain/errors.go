package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerIDRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего идентификатора товара в позиции запроса.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка отсутствия хотя бы одной позиции в запросе на заказ.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrProductQuantityInvalid = errors.New("product quantity must be non-negative")

	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer does not exist")
	// ErrProductNotFound возвращается одиночными lookup'ами товара (например, по имени).
	ErrProductNotFound = errors.New("product not found")
	// ErrProductsNotFound возвращается, если batch-поиск товаров не нашёл ни одного.
	// Частичный результат (часть идентификаторов найдена) ошибкой не считается.
	ErrProductsNotFound = errors.New("products not found")
	// ErrOutOfStock сигнализирует о нехватке остатка; см. OutOfStockError.
	ErrOutOfStock = errors.New("out of stock")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyExists — конфликт уникального ключа при создании записи.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// OutOfStockError несёт имя товара, по которому не хватило остатка на складе.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s out of stock", e.ProductName)
}

// Unwrap позволяет распознавать ошибку через errors.Is(err, ErrOutOfStock).
func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

// ErrorKind классифицирует клиентские ошибки ядра. Транспортный слой
// отображает вид ошибки в код ответа протокола, ядро этим не занимается.
type ErrorKind string

const (
	ErrorKindCustomerNotFound ErrorKind = "customer_not_found"
	ErrorKindProductsNotFound ErrorKind = "products_not_found"
	ErrorKindOutOfStock       ErrorKind = "out_of_stock"
	ErrorKindInvalidRequest   ErrorKind = "invalid_request"
	ErrorKindInternal         ErrorKind = "internal"
)

// KindOf сопоставляет ошибке её вид. Все клиентские ошибки не подлежат
// retry без изменения входных данных.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return ErrorKindCustomerNotFound
	case errors.Is(err, ErrProductsNotFound):
		return ErrorKindProductsNotFound
	case errors.Is(err, ErrOutOfStock):
		return ErrorKindOutOfStock
	case errors.Is(err, ErrCustomerIDRequired),
		errors.Is(err, ErrProductIDRequired),
		errors.Is(err, ErrItemsRequired),
		errors.Is(err, ErrItemQtyInvalid):
		return ErrorKindInvalidRequest
	default:
		return ErrorKindInternal
	}
}

// IsClientError проверяет, вызвана ли ошибка данными запроса, а не системой.
func IsClientError(err error) bool {
	return err != nil && KindOf(err) != ErrorKindInternal
}
