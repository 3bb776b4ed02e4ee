package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/migrations"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runMigrations(ctx context.Context, db *sqlx.DB) error {
	files, err := migrations.Load("up")
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := db.ExecContext(ctx, f.SQL); err != nil {
			return fmt.Errorf("execute migration %s: %w", f.Name, err)
		}
	}
	return nil
}

// fixture is a small shop: one customer with one car, two products and the
// services that use them.
type fixture struct {
	customer *models.Customer
	vehicle  models.Vehicle
	shampoo  *models.Product
	wax      *models.Product
	wash     *models.Service
	waxing   *models.Service
}

func seedShop(t *testing.T, ctx context.Context, s *store.Store) fixture {
	t.Helper()

	customer, err := s.CreateCustomer(ctx, &models.Customer{
		Name:     "Maria Souza",
		Phone:    "11 99999-0000",
		Email:    "maria@example.com",
		Birthday: models.NewDate(1990, time.May, 17),
		Vehicles: []models.Vehicle{{Plate: "ABC1D23", Model: "Onix", Color: "Prata"}},
	})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	shampoo, err := s.CreateProduct(ctx, &models.Product{
		Name: "Shampoo", Supplier: "Vonixx",
		Cost: decimal.NewFromInt(30), Stock: decimal.NewFromInt(20), MinStock: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	wax, err := s.CreateProduct(ctx, &models.Product{
		Name: "Cera", Supplier: "Meguiars",
		Cost: decimal.NewFromInt(80), Stock: decimal.NewFromInt(10), MinStock: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	wash, err := s.CreateService(ctx, &models.Service{
		Name:  "Lavagem Simples",
		Price: decimal.NewFromInt(50),
		ProductsConsumed: []models.ProductUsage{
			{ProductID: shampoo.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}

	waxing, err := s.CreateService(ctx, &models.Service{
		Name:  "Enceramento",
		Price: decimal.NewFromInt(30),
		ProductsConsumed: []models.ProductUsage{
			{ProductID: shampoo.ID, Quantity: decimal.NewFromInt(1)},
			{ProductID: wax.ID, Quantity: decimal.RequireFromString("0.5")},
		},
	})
	if err != nil {
		t.Fatalf("Create service: %v", err)
	}

	return fixture{
		customer: customer,
		vehicle:  customer.Vehicles[0],
		shampoo:  shampoo,
		wax:      wax,
		wash:     wash,
		waxing:   waxing,
	}
}
