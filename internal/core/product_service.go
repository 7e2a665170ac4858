package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductService manages the product catalogue and on-hand stock levels.
// Sales consume stock through SaleService, not through this interface.
type ProductService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	GetProducts(ctx context.Context) ([]Product, error)
	// GetLowStockProducts returns products whose quantity is at or below min_stock.
	GetLowStockProducts(ctx context.Context) ([]Product, error)
	// UpdateProduct applies a partial update; absent patch fields keep their stored value.
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	// DeleteProduct hard-deletes a product. Products with sale history are refused
	// with ErrConflict; callers should deactivate them instead.
	DeleteProduct(ctx context.Context, id int) error
	// ToggleActive flips the active flag and returns the updated product.
	ToggleActive(ctx context.Context, id int) (*Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, name, sku, description, price, cost, quantity, min_stock, category, active, created_at, updated_at`

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanProduct reads one productColumns row. pgx.Rows satisfies pgx.Row, so this
// serves single-row and multi-row reads alike.
func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.Cost,
		&p.Quantity, &p.MinStock, &p.Category, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.LowStock = p.IsLowStock()
	return &p, nil
}

func getProduct(ctx context.Context, q pgxQuerier, id int, forUpdate bool) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}
	p, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Product %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := in.product()

	created, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, sku, description, price, cost, quantity, min_stock, category, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns,
		p.Name, p.SKU, p.Description, p.Price, p.Cost, p.Quantity, p.MinStock, p.Category, p.Active,
	))
	if err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return nil, conflictf("A product with SKU %s already exists", p.SKU)
		}
		if hasPgCode(err, pgNumericOutOfRange) {
			return nil, errProductOutOfRange()
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Product, error) {
	return getProduct(ctx, s.pool, id, false)
}

func (s *productService) GetProducts(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
}

func (s *productService) GetLowStockProducts(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE quantity <= min_stock
		ORDER BY quantity - min_stock, id`)
}

func (s *productService) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := getProduct(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)

	if p.Name == "" || p.SKU == "" {
		return nil, validationf("name and sku cannot be empty")
	}
	if err := p.checkStorable(); err != nil {
		return nil, err
	}

	updated, err := scanProduct(tx.QueryRow(ctx, `
		UPDATE products
		SET name = $1, sku = $2, description = $3, price = $4, cost = $5,
		    quantity = $6, min_stock = $7, category = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+productColumns,
		p.Name, p.SKU, p.Description, p.Price, p.Cost, p.Quantity, p.MinStock, p.Category, id,
	))
	if err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return nil, conflictf("A product with SKU %s already exists", p.SKU)
		}
		if hasPgCode(err, pgNumericOutOfRange) {
			return nil, errProductOutOfRange()
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := getProduct(ctx, tx, id, true); err != nil {
		return err
	}

	var sold bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)", id,
	).Scan(&sold); err != nil {
		return fmt.Errorf("failed to check sale history for product %d: %w", id, err)
	}
	if sold {
		return errProductSold()
	}

	if _, err := tx.Exec(ctx, "DELETE FROM products WHERE id = $1", id); err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return errProductSold()
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit product delete: %w", err)
	}
	return nil
}

func errProductOutOfRange() error {
	return validationf("price or cost is out of range")
}

func errProductSold() error {
	return conflictf("Cannot delete product that has been sold. Consider marking it as inactive instead.")
}

func (s *productService) ToggleActive(ctx context.Context, id int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET active = NOT active, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("Product %d not found", id)
		}
		return nil, fmt.Errorf("failed to toggle product %d: %w", id, err)
	}
	return p, nil
}
