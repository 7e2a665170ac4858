package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"parts-pos/internal/core"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// InvoiceRenderer is satisfied by *invoice.Renderer.
type InvoiceRenderer interface {
	Render(w io.Writer, sale *core.Sale) error
}

const pdfContentType = "application/pdf"

type appService struct {
	db               Pinger
	productService   core.ProductService
	saleService      core.SaleService
	reportingService core.ReportingService
	renderer         InvoiceRenderer
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	db Pinger,
	productService core.ProductService,
	saleService core.SaleService,
	reportingService core.ReportingService,
	renderer InvoiceRenderer,
) ApplicationService {
	return &appService{
		db:               db,
		productService:   productService,
		saleService:      saleService,
		reportingService: reportingService,
		renderer:         renderer,
	}
}

func (s *appService) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// ListProducts returns every product ordered by ID.
func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.productService.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

// ListLowStockProducts returns products at or below their threshold.
func (s *appService) ListLowStockProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.productService.GetLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	return s.productService.GetProduct(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, in core.CreateProductInput) (*core.Product, error) {
	return s.productService.CreateProduct(ctx, in)
}

func (s *appService) UpdateProduct(ctx context.Context, id int, patch core.ProductPatch) (*core.Product, error) {
	return s.productService.UpdateProduct(ctx, id, patch)
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.productService.DeleteProduct(ctx, id)
}

func (s *appService) ToggleProductActive(ctx context.Context, id int) (*core.Product, error) {
	return s.productService.ToggleActive(ctx, id)
}

// ListSales returns sale headers without items, newest first.
func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.saleService.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) GetSale(ctx context.Context, id int) (*core.Sale, error) {
	return s.saleService.GetSale(ctx, id)
}

func (s *appService) CreateSale(ctx context.Context, in core.CreateSaleInput) (*core.Sale, error) {
	return s.saleService.CreateSale(ctx, in)
}

func (s *appService) DeleteSale(ctx context.Context, id int) error {
	return s.saleService.DeleteSale(ctx, id)
}

// RenderInvoice loads the sale with its items and renders it as a PDF.
func (s *appService) RenderInvoice(ctx context.Context, saleID int) (*InvoiceDocument, error) {
	sale, err := s.saleService.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, sale); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", sale.InvoiceNumber, err)
	}

	return &InvoiceDocument{
		Filename:    sale.InvoiceNumber + ".pdf",
		ContentType: pdfContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *appService) GetDashboardStats(ctx context.Context, recentLimit int) (*core.DashboardStats, error) {
	if recentLimit <= 0 {
		recentLimit = core.DefaultRecentSales
	}
	return s.reportingService.GetDashboardStats(ctx, recentLimit)
}
