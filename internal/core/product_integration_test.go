package core_test

import (
	"context"
	"errors"
	"testing"

	"parts-pos/internal/core"

	"github.com/shopspring/decimal"
)

func TestProductService_CreateAppliesDefaults(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)

	p, err := products.CreateProduct(ctx, core.CreateProductInput{
		Name:  "Brake Pad",
		SKU:   "BP-1",
		Price: money("50.00"),
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if !p.Cost.IsZero() || p.Quantity != 0 || p.MinStock != core.DefaultMinStock || !p.Active {
		t.Errorf("Unexpected defaults: %+v", p)
	}
	if !p.LowStock {
		t.Error("A new product with quantity 0 is low stock")
	}
}

func TestProductService_CreateRejectsInvalidAndDuplicate(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)

	if _, err := products.CreateProduct(ctx, core.CreateProductInput{Name: "No SKU", Price: money("1")}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}

	createProduct(t, ctx, products, "Brake Pad", "BP-1", "50.00", 10, 2)
	_, err := products.CreateProduct(ctx, core.CreateProductInput{Name: "Other", SKU: "BP-1", Price: money("1")})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate SKU, got %v", err)
	}
}

func TestProductService_PartialUpdate(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)

	p := createProduct(t, ctx, products, "Brake Pad", "BP-1", "50.00", 10, 2)

	newName := "Brake Pad (Front)"
	updated, err := products.UpdateProduct(ctx, p.ID, core.ProductPatch{
		Name:     &newName,
		Quantity: intRef(2),
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Name != newName || updated.Quantity != 2 {
		t.Errorf("Patched fields not applied: %+v", updated)
	}
	if updated.SKU != "BP-1" || !updated.Price.Equal(decimal.RequireFromString("50.00")) || updated.MinStock != 2 {
		t.Errorf("Absent fields changed: %+v", updated)
	}
	if !updated.LowStock {
		t.Error("quantity == min_stock must report low stock")
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) && !updated.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", updated.UpdatedAt, p.UpdatedAt)
	}

	if _, err := products.UpdateProduct(ctx, 9999, core.ProductPatch{Name: &newName}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProductService_DeleteSoldProductConflicts(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)
	sales := core.NewSaleService(pool)

	sold := createProduct(t, ctx, products, "Brake Pad", "BP-1", "50.00", 10, 2)
	unsold := createProduct(t, ctx, products, "Oil Filter", "OF-1", "12.00", 10, 2)
	for i := 0; i < 3; i++ {
		createProduct(t, ctx, products, "Filler", "F-"+string(rune('A'+i)), "1.00", 1, 0)
	}

	if _, err := sales.CreateSale(ctx, core.CreateSaleInput{
		Items: []core.SaleItemInput{{ProductID: sold.ID, Quantity: 1, Price: money("50.00")}},
	}); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	err := products.DeleteProduct(ctx, sold.ID)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}
	if _, err := products.GetProduct(ctx, sold.ID); err != nil {
		t.Errorf("Sold product must survive: %v", err)
	}

	if err := products.DeleteProduct(ctx, unsold.ID); err != nil {
		t.Fatalf("DeleteProduct on unsold product failed: %v", err)
	}
	if _, err := products.GetProduct(ctx, unsold.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := products.DeleteProduct(ctx, unsold.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestProductService_ToggleActive(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)

	p := createProduct(t, ctx, products, "Brake Pad", "BP-1", "50.00", 10, 2)

	toggled, err := products.ToggleActive(ctx, p.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if toggled.Active {
		t.Error("Expected product to be inactive")
	}
	toggled, err = products.ToggleActive(ctx, p.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if !toggled.Active {
		t.Error("Expected product to be active again")
	}

	if _, err := products.ToggleActive(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProductService_LowStockBoundary(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	products := core.NewProductService(pool)

	atThreshold := createProduct(t, ctx, products, "At", "AT-1", "1.00", 5, 5)
	createProduct(t, ctx, products, "Above", "AB-1", "1.00", 6, 5)

	low, err := products.GetLowStockProducts(ctx)
	if err != nil {
		t.Fatalf("GetLowStockProducts failed: %v", err)
	}
	if len(low) != 1 || low[0].ID != atThreshold.ID {
		t.Errorf("Expected only the product at threshold, got %+v", low)
	}

	all, err := products.GetProducts(ctx)
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	for _, p := range all {
		if p.LowStock != (p.Quantity <= p.MinStock) {
			t.Errorf("%s: low_stock=%v with quantity=%d min_stock=%d", p.SKU, p.LowStock, p.Quantity, p.MinStock)
		}
	}
}

func TestProductService_RejectsAmountsTheColumnsCannotHold(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewProductService(pool)

	_, err := svc.CreateProduct(ctx, core.CreateProductInput{Name: "Engine", SKU: "EN-1", Price: money("1000000000.00")})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Expected ErrValidation for out-of-range price, got %v", err)
	}

	p := createProduct(t, ctx, svc, "Brake Pad", "BP-1", "50.00", 10, 2)

	_, err = svc.UpdateProduct(ctx, p.ID, core.ProductPatch{Price: money("49.999")})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Expected ErrValidation for sub-cent price, got %v", err)
	}
	_, err = svc.UpdateProduct(ctx, p.ID, core.ProductPatch{Cost: money("1000000000.00")})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Expected ErrValidation for out-of-range cost, got %v", err)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("50.00")) || !got.Cost.IsZero() {
		t.Errorf("Expected product unchanged, got price %s cost %s", got.Price, got.Cost)
	}
}
