package core

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SaleStatusCompleted is the only status current flows assign.
	SaleStatusCompleted = "completed"
	// DefaultPaymentMethod is used when a sale does not name one.
	DefaultPaymentMethod = "cash"

	invoiceSequenceName = "INV"
)

// Sale is a completed, immutable sales transaction with its invoice number.
// Items is only populated by single-sale reads.
type Sale struct {
	ID                  int             `json:"id"`
	InvoiceNumber       string          `json:"invoice_number"`
	CustomerName        string          `json:"customer_name"`
	CustomerEmail       string          `json:"customer_email"`
	VehicleMake         string          `json:"vehicle_make"`
	VehicleModel        string          `json:"vehicle_model"`
	VehicleRegistration string          `json:"vehicle_registration"`
	VehicleMileage      *int            `json:"vehicle_mileage"`
	Total               decimal.Decimal `json:"total"`
	Tax                 decimal.Decimal `json:"tax"`
	Discount            decimal.Decimal `json:"discount"`
	PaymentMethod       string          `json:"payment_method"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	Items               []SaleItem      `json:"items,omitempty"`
}

// HasVehicle reports whether any vehicle descriptor was recorded on the sale.
func (s Sale) HasVehicle() bool {
	return s.VehicleMake != "" || s.VehicleModel != "" || s.VehicleRegistration != "" || s.VehicleMileage != nil
}

// SaleItem is one line of a sale. Price is the unit price at time of sale and
// Subtotal is Price × Quantity, fixed when the line is written.
type SaleItem struct {
	ID          int             `json:"id"`
	SaleID      int             `json:"sale_id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"` // joined from products
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleItemInput is one requested line of a new sale.
type SaleItemInput struct {
	ProductID int              `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// CreateSaleInput is the input for recording a sale. Discount and Tax default to zero.
type CreateSaleInput struct {
	CustomerName        string           `json:"customer_name"`
	CustomerEmail       string           `json:"customer_email"`
	VehicleMake         string           `json:"vehicle_make"`
	VehicleModel        string           `json:"vehicle_model"`
	VehicleRegistration string           `json:"vehicle_registration"`
	VehicleMileage      *int             `json:"vehicle_mileage"`
	PaymentMethod       string           `json:"payment_method"`
	Discount            *decimal.Decimal `json:"discount"`
	Tax                 *decimal.Decimal `json:"tax"`
	Items               []SaleItemInput  `json:"items"`
}

// Validate checks the request shape. Stock and product existence are checked
// inside the sale transaction.
func (in CreateSaleInput) Validate() error {
	if len(in.Items) == 0 {
		return validationf("at least one item is required")
	}
	for i, item := range in.Items {
		if item.ProductID <= 0 {
			return validationf("items[%d]: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return validationf("items[%d]: quantity must be positive", i)
		}
		if item.Price == nil {
			return validationf("items[%d]: price is required", i)
		}
		if item.Price.IsNegative() {
			return validationf("items[%d]: price cannot be negative", i)
		}
		if err := checkCents(fmt.Sprintf("items[%d]: price", i), *item.Price); err != nil {
			return err
		}
		if err := checkCount(fmt.Sprintf("items[%d]: quantity", i), item.Quantity); err != nil {
			return err
		}
	}
	if in.Discount != nil {
		if err := checkCents("discount", *in.Discount); err != nil {
			return err
		}
	}
	if in.Tax != nil {
		if err := checkCents("tax", *in.Tax); err != nil {
			return err
		}
	}
	if in.VehicleMileage != nil {
		if *in.VehicleMileage < 0 {
			return validationf("vehicle_mileage cannot be negative")
		}
		if err := checkCount("vehicle_mileage", *in.VehicleMileage); err != nil {
			return err
		}
	}
	return nil
}

// checkCents rejects amounts finer than a cent. Money columns are NUMERIC(10,2)
// and would round each stored value on its own, breaking the line and sale totals.
func checkCents(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return validationf("%s must not have more than two decimal places", field)
	}
	return nil
}

// checkCount rejects counts that do not fit an INTEGER column.
func checkCount(field string, n int) error {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return validationf("%s is out of range", field)
	}
	return nil
}

// LineSubtotal is price × quantity for a single line.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotals returns the sum of line subtotals and the sale total
// (subtotal − discount + tax). Items must already be validated.
func ComputeTotals(items []SaleItemInput, discount, tax decimal.Decimal) (subtotal, total decimal.Decimal) {
	for _, item := range items {
		subtotal = subtotal.Add(LineSubtotal(*item.Price, item.Quantity))
	}
	return subtotal, subtotal.Sub(discount).Add(tax)
}

// FormatInvoiceNumber renders the n-th invoice number, e.g. 1 → "INV-00001".
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%s-%05d", invoiceSequenceName, n)
}

// DashboardStats is the aggregate view shown on the dashboard.
type DashboardStats struct {
	TotalProducts int             `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	TotalSales    int             `json:"total_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	RecentSales   []Sale          `json:"recent_sales"`
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
