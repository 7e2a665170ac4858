package app

import (
	"context"

	"parts-pos/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// Ping checks that the data store is reachable.
	Ping(ctx context.Context) error

	// ListProducts returns every product ordered by ID.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// ListLowStockProducts returns products whose quantity is at or below min_stock.
	ListLowStockProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns a single product.
	GetProduct(ctx context.Context, id int) (*core.Product, error)

	// CreateProduct adds a product to the catalogue.
	CreateProduct(ctx context.Context, in core.CreateProductInput) (*core.Product, error)

	// UpdateProduct applies a partial update. Fields left nil keep their value.
	UpdateProduct(ctx context.Context, id int, patch core.ProductPatch) (*core.Product, error)

	// DeleteProduct removes a product that has never been sold.
	DeleteProduct(ctx context.Context, id int) error

	// ToggleProductActive flips the product's active flag.
	ToggleProductActive(ctx context.Context, id int) (*core.Product, error)

	// ListSales returns sale headers, newest first.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// GetSale returns a sale with its line items.
	GetSale(ctx context.Context, id int) (*core.Sale, error)

	// CreateSale records a sale, decrements stock and assigns the next invoice number,
	// all in one transaction.
	CreateSale(ctx context.Context, in core.CreateSaleInput) (*core.Sale, error)

	// DeleteSale removes a sale and its items. Stock is not restored.
	DeleteSale(ctx context.Context, id int) error

	// RenderInvoice loads a sale and renders its PDF invoice.
	RenderInvoice(ctx context.Context, saleID int) (*InvoiceDocument, error)

	// GetDashboardStats returns store-wide counts, revenue and the most recent sales.
	GetDashboardStats(ctx context.Context, recentLimit int) (*core.DashboardStats, error)
}
