package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
	"github.com/vladislavdragonenkov/orders/internal/storage/postgres"
)

// seedProducts — демонстрационный каталог. Цены в минорных единицах.
var seedProducts = []struct {
	Name       string
	PriceMinor int64
	Quantity   int64
}{
	{"keyboard", 500, 10},
	{"mouse", 250, 25},
	{"monitor", 15000, 5},
	{"usb-c cable", 90, 100},
}

var seedCustomers = []struct {
	Name  string
	Email string
}{
	{"Ivan Petrov", "ivan@example.com"},
	{"Anna Sidorova", "anna@example.com"},
}

func main() {
	var (
		dsn       string
		demoOrder bool
	)

	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: ORDERS_POSTGRES_DSN)")
	flag.BoolVar(&demoOrder, "demo-order", false, "place a demo order after seeding")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "seed")

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_DSN"))
	}
	if dsn == "" {
		logger.Fatal("ORDERS_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		logger.WithError(err).Fatal("open postgres store")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	customers := postgres.NewCustomerRepository(store)
	products := postgres.NewProductRepository(store)

	now := time.Now().UTC()
	customerIDs := make([]string, 0, len(seedCustomers))

	for _, c := range seedCustomers {
		customer := domain.Customer{
			ID:        uuid.NewString(),
			Name:      c.Name,
			Email:     c.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := customers.Create(customer); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				logger.WithField("customer", c.Name).Info("customer already exists, skipping")
				continue
			}
			logger.WithError(err).Fatal("seed customer")
		}
		customerIDs = append(customerIDs, customer.ID)
		logger.WithFields(log.Fields{"customer": c.Name, "id": customer.ID}).Info("customer created")
	}

	productIDs := make([]string, 0, len(seedProducts))
	for _, p := range seedProducts {
		// Каталог идемпотентен: существующие имена не пересоздаются.
		if existing, err := products.FindByName(p.Name); err == nil {
			logger.WithField("product", p.Name).Info("product already exists, skipping")
			productIDs = append(productIDs, existing.ID)
			continue
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			logger.WithError(err).Fatal("lookup product by name")
		}

		product := domain.Product{
			ID:         uuid.NewString(),
			Name:       p.Name,
			PriceMinor: p.PriceMinor,
			Quantity:   p.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := products.Create(product); err != nil {
			logger.WithError(err).Fatal("seed product")
		}
		productIDs = append(productIDs, product.ID)
		logger.WithFields(log.Fields{"product": p.Name, "id": product.ID}).Info("product created")
	}

	if !demoOrder {
		logger.Info("seeding finished")
		return
	}

	if len(customerIDs) == 0 || len(productIDs) == 0 {
		logger.Fatal("demo order requires freshly seeded customers and products")
	}

	svc := order.NewService(
		customers,
		products,
		postgres.NewOrderRepository(store),
		postgres.NewOutboxRepository(store),
		logger.WithField("layer", "service"),
	)

	created, err := svc.Create(ctx, customerIDs[0], []domain.ItemRequest{
		{ProductID: productIDs[0], Qty: 1},
	})
	if err != nil {
		logger.WithError(err).Fatal("place demo order")
	}

	logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"lines":       len(created.Lines),
		"total_minor": created.TotalMinor(),
	}).Info("demo order placed")
}
