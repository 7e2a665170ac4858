package core_test

import (
	"context"
	"os"
	"testing"

	"parts-pos/internal/core"
	"parts-pos/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// setupTestDB migrates and empties the database at TEST_DATABASE_URL.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// A dedicated database: every table is truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	if err := db.Migrate(dbURL); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE sale_items, sales, products, invoice_sequences RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return pool
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intRef(i int) *int { return &i }

// createProduct inserts a product with the given stock and threshold.
func createProduct(t *testing.T, ctx context.Context, svc core.ProductService, name, sku, price string, qty, minStock int) *core.Product {
	t.Helper()
	p, err := svc.CreateProduct(ctx, core.CreateProductInput{
		Name:     name,
		SKU:      sku,
		Price:    money(price),
		Quantity: intRef(qty),
		MinStock: intRef(minStock),
	})
	if err != nil {
		t.Fatalf("CreateProduct %s failed: %v", sku, err)
	}
	return p
}

// quantityOf reads a product's on-hand quantity.
func quantityOf(t *testing.T, ctx context.Context, svc core.ProductService, id int) int {
	t.Helper()
	p, err := svc.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct %d failed: %v", id, err)
	}
	return p.Quantity
}

func countSales(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&n); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	return n
}
