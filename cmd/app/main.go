package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"parts-pos/internal/adapters/cli"
	"parts-pos/internal/app"
	"parts-pos/internal/config"
	"parts-pos/internal/core"
	"parts-pos/internal/db"
	"parts-pos/internal/invoice"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	root := cli.NewRootCommand(connect, migrate)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func migrate(_ context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return db.Migrate(cfg.DatabaseURL)
}

// connect builds the same service graph as cmd/server.
func connect(ctx context.Context) (app.ApplicationService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	tmpl := invoice.DefaultTemplate()
	if cfg.App.InvoiceTemplatePath != "" {
		tmpl, err = invoice.LoadTemplate(cfg.App.InvoiceTemplatePath)
		if err != nil {
			return nil, nil, err
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	svc := app.NewAppService(
		pool,
		core.NewProductService(pool),
		core.NewSaleService(pool),
		core.NewReportingService(pool),
		invoice.NewRenderer(tmpl),
	)
	return svc, pool.Close, nil
}
