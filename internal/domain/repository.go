package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// FindByID возвращает клиента или ErrCustomerNotFound, если его нет.
	FindByID(id string) (Customer, error)
	// Create сохраняет нового клиента. Возвращает ErrAlreadyExists при конфликте ID.
	Create(customer Customer) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// FindByName возвращает товар по имени или ErrProductNotFound.
	FindByName(name string) (Product, error)
	// FindAllByID возвращает товары по списку идентификаторов. Результат может
	// содержать меньше записей, чем запрошено: частичное совпадение валидно.
	FindAllByID(ids []string) ([]Product, error)
	// Create сохраняет новый товар. Имя товара уникально.
	Create(product Product) error
	// UpdateQuantities атомарно списывает остатки по всем позициям батча.
	// Дубликаты сворачиваются last-write-wins. Если хотя бы по одному товару
	// остаток упал бы ниже 1, весь батч отклоняется с OutOfStockError и ни один
	// остаток не меняется. Возвращает товары с обновлёнными остатками.
	UpdateQuantities(items []ItemRequest) ([]Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
}
