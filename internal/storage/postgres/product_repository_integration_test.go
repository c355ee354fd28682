package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func sampleProduct(id, name string, priceMinor, qty int64, ts time.Time) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		PriceMinor: priceMinor,
		Quantity:   qty,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

func TestProductRepository_PostgresCreateAndFind(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(sampleProduct("p-1", "keyboard", 500, 10, now)); err != nil {
		t.Fatalf("create p-1: %v", err)
	}
	if err := repo.Create(sampleProduct("p-2", "mouse", 250, 4, now)); err != nil {
		t.Fatalf("create p-2: %v", err)
	}

	byName, err := repo.FindByName("keyboard")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if byName.ID != "p-1" || byName.PriceMinor != 500 || byName.Quantity != 10 {
		t.Fatalf("unexpected product: %+v", byName)
	}

	if _, err := repo.FindByName("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	// Имя товара уникально: повторная вставка с другим id отклоняется.
	if err := repo.Create(sampleProduct("p-3", "keyboard", 100, 1, now)); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate name, got %v", err)
	}

	// Batch-поиск: отсутствующий id молча пропускается.
	found, err := repo.FindAllByID([]string{"p-1", "ghost", "p-2"})
	if err != nil {
		t.Fatalf("find all by id: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 products, got %d", len(found))
	}
}

func TestProductRepository_PostgresUpdateQuantities(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(sampleProduct("p-1", "keyboard", 500, 10, now)); err != nil {
		t.Fatalf("create p-1: %v", err)
	}
	if err := repo.Create(sampleProduct("p-2", "mouse", 250, 2, now)); err != nil {
		t.Fatalf("create p-2: %v", err)
	}

	updated, err := repo.UpdateQuantities([]domain.ItemRequest{
		{ProductID: "p-1", Qty: 3},
	})
	if err != nil {
		t.Fatalf("update quantities: %v", err)
	}
	if len(updated) != 1 || updated[0].Quantity != 7 {
		t.Fatalf("unexpected updated products: %+v", updated)
	}

	// Дубликаты схлопываются, выигрывает последнее количество.
	updated, err = repo.UpdateQuantities([]domain.ItemRequest{
		{ProductID: "p-1", Qty: 1},
		{ProductID: "p-1", Qty: 2},
	})
	if err != nil {
		t.Fatalf("update with duplicates: %v", err)
	}
	if len(updated) != 1 || updated[0].Quantity != 5 {
		t.Fatalf("unexpected quantity after duplicate collapse: %+v", updated)
	}
}

func TestProductRepository_PostgresUpdateQuantitiesAllOrNothing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(sampleProduct("p-1", "keyboard", 500, 10, now)); err != nil {
		t.Fatalf("create p-1: %v", err)
	}
	if err := repo.Create(sampleProduct("p-2", "mouse", 250, 2, now)); err != nil {
		t.Fatalf("create p-2: %v", err)
	}

	// p-2: 2 - 2 = 0 < 1, батч отклоняется целиком.
	_, err := repo.UpdateQuantities([]domain.ItemRequest{
		{ProductID: "p-1", Qty: 2},
		{ProductID: "p-2", Qty: 2},
	})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	var oos *domain.OutOfStockError
	if !errors.As(err, &oos) || oos.ProductName != "mouse" {
		t.Fatalf("expected offending product name in error, got %v", err)
	}

	remaining, err := repo.FindAllByID([]string{"p-1", "p-2"})
	if err != nil {
		t.Fatalf("find all after rollback: %v", err)
	}
	for _, product := range remaining {
		switch product.ID {
		case "p-1":
			if product.Quantity != 10 {
				t.Fatalf("p-1 quantity changed despite rollback: %d", product.Quantity)
			}
		case "p-2":
			if product.Quantity != 2 {
				t.Fatalf("p-2 quantity changed despite rollback: %d", product.Quantity)
			}
		}
	}
}

func TestProductRepository_PostgresUpdateQuantitiesSkipsUnknownAndRestocks(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(sampleProduct("p-1", "keyboard", 500, 10, now)); err != nil {
		t.Fatalf("create p-1: %v", err)
	}

	// Неизвестный id пропускается без ошибки.
	updated, err := repo.UpdateQuantities([]domain.ItemRequest{
		{ProductID: "p-1", Qty: 1},
		{ProductID: "ghost", Qty: 5},
	})
	if err != nil {
		t.Fatalf("update with unknown id: %v", err)
	}
	if len(updated) != 1 || updated[0].Quantity != 9 {
		t.Fatalf("unexpected result with unknown id: %+v", updated)
	}

	// Отрицательное количество возвращает остаток на склад.
	updated, err = repo.UpdateQuantities([]domain.ItemRequest{
		{ProductID: "p-1", Qty: -1},
	})
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if len(updated) != 1 || updated[0].Quantity != 10 {
		t.Fatalf("unexpected quantity after restock: %+v", updated)
	}
}
