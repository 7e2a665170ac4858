package cli

import (
	"context"
	"fmt"

	"parts-pos/internal/app"

	"github.com/spf13/cobra"
)

// Connector opens the application service. The returned func releases it.
type Connector func(ctx context.Context) (app.ApplicationService, func(), error)

// Migrator applies pending schema migrations.
type Migrator func(ctx context.Context) error

// RootOptions holds global flags and the dependencies shared by all commands.
type RootOptions struct {
	Format string // "text" | "json"

	connect Connector
	migrate Migrator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the operator CLI. The service is only opened by
// commands that need it, so help and migrate work without a live pool.
func NewRootCommand(connect Connector, migrate Migrator) *cobra.Command {
	opts := &RootOptions{connect: connect, migrate: migrate}

	cmd := &cobra.Command{
		Use:   "parts-pos",
		Short: "Parts shop point of sale",
		Long:  "Operator commands for the parts shop inventory, sales and invoices.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewSalesCommand(opts))
	cmd.AddCommand(NewInvoiceCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.migrate(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return err
		},
	}
}

// withService opens the service for the duration of fn.
func withService(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, svc app.ApplicationService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := opts.connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer release()
	return fn(ctx, svc)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
