package web

import (
	"context"

	"parts-pos/internal/app"
	"parts-pos/internal/core"
)

// fakeService embeds the interface so tests only stub what they call; anything
// else panics and is turned into a 500 by Recoverer.
type fakeService struct {
	app.ApplicationService

	pingErr     error
	products    []core.Product
	product     *core.Product
	sale        *core.Sale
	sales       []core.Sale
	stats       *core.DashboardStats
	invoice     *app.InvoiceDocument
	err         error
	gotID       int
	gotPatch    core.ProductPatch
	gotSale     core.CreateSaleInput
	gotProduct  core.CreateProductInput
	gotRecent   int
	deleteCalls int
}

func (f *fakeService) Ping(context.Context) error { return f.pingErr }

func (f *fakeService) ListProducts(context.Context) (*app.ProductListResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &app.ProductListResult{Products: f.products}, nil
}

func (f *fakeService) ListLowStockProducts(context.Context) (*app.ProductListResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var low []core.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return &app.ProductListResult{Products: low}, nil
}

func (f *fakeService) GetProduct(_ context.Context, id int) (*core.Product, error) {
	f.gotID = id
	return f.product, f.err
}

func (f *fakeService) CreateProduct(_ context.Context, in core.CreateProductInput) (*core.Product, error) {
	f.gotProduct = in
	return f.product, f.err
}

func (f *fakeService) UpdateProduct(_ context.Context, id int, patch core.ProductPatch) (*core.Product, error) {
	f.gotID = id
	f.gotPatch = patch
	return f.product, f.err
}

func (f *fakeService) DeleteProduct(_ context.Context, id int) error {
	f.gotID = id
	f.deleteCalls++
	return f.err
}

func (f *fakeService) ToggleProductActive(_ context.Context, id int) (*core.Product, error) {
	f.gotID = id
	return f.product, f.err
}

func (f *fakeService) ListSales(context.Context) (*app.SaleListResult, error) {
	return &app.SaleListResult{Sales: f.sales}, f.err
}

func (f *fakeService) GetSale(_ context.Context, id int) (*core.Sale, error) {
	f.gotID = id
	return f.sale, f.err
}

func (f *fakeService) CreateSale(_ context.Context, in core.CreateSaleInput) (*core.Sale, error) {
	f.gotSale = in
	return f.sale, f.err
}

func (f *fakeService) DeleteSale(_ context.Context, id int) error {
	f.gotID = id
	f.deleteCalls++
	return f.err
}

func (f *fakeService) RenderInvoice(_ context.Context, id int) (*app.InvoiceDocument, error) {
	f.gotID = id
	return f.invoice, f.err
}

func (f *fakeService) GetDashboardStats(_ context.Context, recent int) (*core.DashboardStats, error) {
	f.gotRecent = recent
	return f.stats, f.err
}
