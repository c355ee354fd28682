package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) FindByName(name string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE name = $1
	`, name).Scan(
		&product.ID, &product.Name, &product.PriceMinor,
		&product.Quantity, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product by name: %w", err)
	}

	return product, nil
}

// FindAllByID возвращает товары по найденным id: отсутствующие id
// молча пропускаются, пустой результат — ответственность вызывающего.
func (r *productRepository) FindAllByID(ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products by ids: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.PriceMinor,
			&product.Quantity, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price_minor, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, product.ID, product.Name, product.PriceMinor, product.Quantity, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// UpdateQuantities атомарно списывает остатки по всем позициям запроса.
// Дубликаты схлопываются (последнее количество выигрывает), строки
// блокируются SELECT ... FOR UPDATE в порядке id, чтобы конкурентные
// списания не взаимоблокировались. Если хотя бы по одному найденному
// товару остаток после списания опускается ниже единицы, транзакция
// откатывается целиком. Неизвестные id молча пропускаются.
func (r *productRepository) UpdateQuantities(items []domain.ItemRequest) ([]domain.Product, error) {
	requested := domain.CollapseItems(items)
	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, price_minor, quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}

	now := time.Now().UTC()
	updated := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var product domain.Product
		if err = rows.Scan(
			&product.ID, &product.Name, &product.PriceMinor,
			&product.Quantity, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan locked product: %w", err)
		}

		remaining := product.Quantity - requested[product.ID]
		if remaining < 1 {
			rows.Close()
			err = &domain.OutOfStockError{ProductName: product.Name}
			return nil, err
		}

		product.Quantity = remaining
		product.UpdatedAt = now
		updated = append(updated, product)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate locked products: %w", err)
	}
	rows.Close()

	for _, product := range updated {
		if _, err = tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = $2,
			    updated_at = $3
			WHERE id = $1
		`, product.ID, product.Quantity, product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("update product quantity: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quantity update: %w", err)
	}

	return updated, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
