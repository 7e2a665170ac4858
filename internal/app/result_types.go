package app

import "parts-pos/internal/core"

// ProductListResult is returned by ListProducts and ListLowStockProducts.
type ProductListResult struct {
	Products []core.Product
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale
}

// InvoiceDocument is a rendered invoice ready to be written to a file or response.
type InvoiceDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}
