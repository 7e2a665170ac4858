package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"parts-pos/internal/app"
	"parts-pos/internal/core"

	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command group.
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect the product catalogue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				result, err := svc.ListProducts(ctx)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd.OutOrStdout()).products(result.Products)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below their minimum stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				result, err := svc.ListLowStockProducts(ctx)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd.OutOrStdout()).products(result.Products)
			})
		},
	})

	return cmd
}

// NewSalesCommand creates the sales command group.
func NewSalesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Inspect recorded sales",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sales, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				result, err := svc.ListSales(ctx)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd.OutOrStdout()).sales(result.Sales)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <sale-id>",
		Short: "Show a sale with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				sale, err := svc.GetSale(ctx, id)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd.OutOrStdout()).sale(sale)
			})
		},
	})

	return cmd
}

// NewInvoiceCommand creates the invoice command, which writes a sale's PDF to disk.
func NewInvoiceCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "invoice <sale-id>",
		Short: "Render the PDF invoice for a sale",
		Long: `Render the PDF invoice for a sale and write it to a file.

Without --output the file is named after the invoice number, e.g. INV-00001.pdf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				doc, err := svc.RenderInvoice(ctx, id)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = doc.Filename
				}
				if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write invoice: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(doc.Data))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals and recent sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, opts, func(ctx context.Context, svc app.ApplicationService) error {
				stats, err := svc.GetDashboardStats(ctx, recent)
				if err != nil {
					return err
				}
				return newPrinter(opts, cmd.OutOrStdout()).stats(stats)
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", core.DefaultRecentSales, "number of recent sales to show")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
