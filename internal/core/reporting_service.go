package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultRecentSales is the number of recent sales on the dashboard.
const DefaultRecentSales = 5

// ReportingService provides read-only aggregate queries.
type ReportingService interface {
	// GetDashboardStats returns product, stock and revenue aggregates plus the
	// recentLimit newest sales, all read from one snapshot.
	GetDashboardStats(ctx context.Context, recentLimit int) (*DashboardStats, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetDashboardStats(ctx context.Context, recentLimit int) (*DashboardStats, error) {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentSales
	}

	// REPEATABLE READ gives every aggregate below the same snapshot.
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var stats DashboardStats
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE quantity <= min_stock)
		FROM products
	`).Scan(&stats.TotalProducts, &stats.LowStockCount); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
	`).Scan(&stats.TotalSales, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	stats.RecentSales, err = querySales(ctx, tx,
		"SELECT "+saleColumns+" FROM sales ORDER BY created_at DESC, id DESC LIMIT $1", recentLimit)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close read transaction: %w", err)
	}
	return &stats, nil
}
