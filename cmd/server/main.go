package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "parts-pos/internal/adapters/web"
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

	cfg, err := config.Load()
	if err != nil {
		fatal("config", err)
	}
	setupLogging(cfg.App.Debug)

	if cfg.App.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			fatal("migrations", err)
		}
		slog.Info("migrations applied")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("database", err)
	}
	defer pool.Close()

	tmpl := invoice.DefaultTemplate()
	if cfg.App.InvoiceTemplatePath != "" {
		tmpl, err = invoice.LoadTemplate(cfg.App.InvoiceTemplatePath)
		if err != nil {
			fatal("invoice template", err)
		}
	}

	svc := app.NewAppService(
		pool,
		core.NewProductService(pool),
		core.NewSaleService(pool),
		core.NewReportingService(pool),
		invoice.NewRenderer(tmpl),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      webAdapter.NewHandler(svc, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func fatal(what string, err error) {
	slog.Error(what, "error", err)
	os.Exit(1)
}
