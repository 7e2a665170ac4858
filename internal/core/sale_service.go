package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SaleService records sales against stock. A sale and every stock movement it
// causes commit together or not at all.
type SaleService interface {
	// CreateSale validates stock for every item, decrements inventory, writes the
	// sale and its items, and assigns the next invoice number in one transaction.
	CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error)
	// GetSale returns a sale with its items and their product names.
	GetSale(ctx context.Context, id int) (*Sale, error)
	// GetSales returns all sales, newest first, without items.
	GetSales(ctx context.Context) ([]Sale, error)
	// DeleteSale removes a sale and its items. Stock consumed by the sale is not restored.
	DeleteSale(ctx context.Context, id int) error
}

type saleService struct {
	pool *pgxpool.Pool
}

func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

const saleColumns = `id, invoice_number, customer_name, customer_email,
	vehicle_make, vehicle_model, vehicle_registration, vehicle_mileage,
	total, tax, discount, payment_method, status, created_at`

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	if err := row.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.CustomerEmail,
		&s.VehicleMake, &s.VehicleModel, &s.VehicleRegistration, &s.VehicleMileage,
		&s.Total, &s.Tax, &s.Discount, &s.PaymentMethod, &s.Status, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *saleService) CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	discount := valueOrZero(in.Discount)
	tax := valueOrZero(in.Tax)
	_, total := ComputeTotals(in.Items, discount, tax)

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	invoiceNumber, err := nextInvoiceNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	sale, err := scanSale(tx.QueryRow(ctx, `
		INSERT INTO sales (invoice_number, customer_name, customer_email,
		                   vehicle_make, vehicle_model, vehicle_registration, vehicle_mileage,
		                   total, tax, discount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+saleColumns,
		invoiceNumber, in.CustomerName, in.CustomerEmail,
		in.VehicleMake, in.VehicleModel, in.VehicleRegistration, in.VehicleMileage,
		total, tax, discount, paymentMethod, SaleStatusCompleted,
	))
	if err != nil {
		if hasPgCode(err, pgNumericOutOfRange) {
			return nil, validationf("sale total, discount or tax is out of range")
		}
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	sale.Items = make([]SaleItem, 0, len(in.Items))
	for _, input := range in.Items {
		// Lock the product row so the stock check and the decrement see the same value.
		var name string
		var onHand int
		err := tx.QueryRow(ctx,
			"SELECT name, quantity FROM products WHERE id = $1 FOR UPDATE", input.ProductID,
		).Scan(&name, &onHand)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFoundf("Product %d not found", input.ProductID)
			}
			return nil, fmt.Errorf("failed to lock product %d: %w", input.ProductID, err)
		}

		if onHand < input.Quantity {
			return nil, conflictf("Insufficient stock for %s", name)
		}

		item := SaleItem{
			SaleID:      sale.ID,
			ProductID:   input.ProductID,
			ProductName: name,
			Quantity:    input.Quantity,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity, price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, price, subtotal
		`, sale.ID, input.ProductID, input.Quantity, *input.Price, LineSubtotal(*input.Price, input.Quantity),
		).Scan(&item.ID, &item.Price, &item.Subtotal)
		if err != nil {
			if hasPgCode(err, pgNumericOutOfRange) {
				return nil, validationf("line amount for %s is out of range", name)
			}
			return nil, fmt.Errorf("failed to insert sale item for product %d: %w", input.ProductID, err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2
		`, input.Quantity, input.ProductID); err != nil {
			return nil, fmt.Errorf("failed to decrement stock for product %d: %w", input.ProductID, err)
		}

		sale.Items = append(sale.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return sale, nil
}

// nextInvoiceNumber increments the invoice counter inside tx. A rolled-back sale
// rolls the counter back with it, so numbers stay gapless.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var n int64
	err := tx.QueryRow(ctx, `
		INSERT INTO invoice_sequences (name, last_number)
		VALUES ($1, 1)
		ON CONFLICT (name)
		DO UPDATE SET last_number = invoice_sequences.last_number + 1
		RETURNING last_number
	`, invoiceSequenceName).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return FormatInvoiceNumber(n), nil
}

func (s *saleService) GetSale(ctx context.Context, id int) (*Sale, error) {
	sale, err := scanSale(s.pool.QueryRow(ctx, "SELECT "+saleColumns+" FROM sales WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Sale %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch sale %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, si.quantity, si.price, si.subtotal
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for sale %d: %w", id, err)
	}
	defer rows.Close()

	sale.Items = []SaleItem{}
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}
	return sale, nil
}

func (s *saleService) GetSales(ctx context.Context) ([]Sale, error) {
	return querySales(ctx, s.pool, "SELECT "+saleColumns+" FROM sales ORDER BY created_at DESC, id DESC")
}

// sqlQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type sqlQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func querySales(ctx context.Context, q sqlQuerier, query string, args ...any) ([]Sale, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	return sales, nil
}

func (s *saleService) DeleteSale(ctx context.Context, id int) error {
	// sale_items go with the sale (ON DELETE CASCADE); product quantities are left as they are.
	tag, err := s.pool.Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete sale %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("Sale %d not found", id)
	}
	return nil
}
