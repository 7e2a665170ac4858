package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock is the low-stock threshold given to products created without one.
const DefaultMinStock = 5

// Product is a stocked part. Quantity is the on-hand count; LowStock is derived
// from Quantity and MinStock every time the row is read.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsLowStock reports whether on-hand quantity is at or below the threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// CreateProductInput is the input for creating a product.
// Name, SKU and Price are required; the pointer fields fall back to defaults.
type CreateProductInput struct {
	Name        string           `json:"name"`
	SKU         string           `json:"sku"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Quantity    *int             `json:"quantity"`
	MinStock    *int             `json:"min_stock"`
	Category    string           `json:"category"`
}

// Validate checks required fields and that amounts and counts fit their columns.
func (in CreateProductInput) Validate() error {
	switch {
	case in.Name == "":
		return validationf("name is required")
	case in.SKU == "":
		return validationf("sku is required")
	case in.Price == nil:
		return validationf("price is required")
	}
	return in.product().checkStorable()
}

// checkStorable reports values the products columns would round or reject.
func (p Product) checkStorable() error {
	if err := checkCents("price", p.Price); err != nil {
		return err
	}
	if err := checkCents("cost", p.Cost); err != nil {
		return err
	}
	if err := checkCount("quantity", p.Quantity); err != nil {
		return err
	}
	return checkCount("min_stock", p.MinStock)
}

// product returns the row to insert, with defaults applied.
func (in CreateProductInput) product() Product {
	p := Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Description: in.Description,
		Price:       *in.Price,
		Cost:        decimal.Zero,
		MinStock:    DefaultMinStock,
		Category:    in.Category,
		Active:      true,
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	return p
}

// ProductPatch is a partial product update. A nil field leaves the stored value unchanged.
type ProductPatch struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Quantity    *int             `json:"quantity"`
	MinStock    *int             `json:"min_stock"`
	Category    *string          `json:"category"`
}

// Apply copies every present field of the patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.MinStock != nil {
		p.MinStock = *patch.MinStock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	p.LowStock = p.IsLowStock()
}
