package domain

import "time"

// Customer — покупатель. Заказы ссылаются на клиента по ID;
// клиент создаётся независимо от заказов.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
