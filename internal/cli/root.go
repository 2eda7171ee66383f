package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/config"
	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/tui"
)

type rootOptions struct {
	cfgFile    string
	ledgerFile string
	debug      bool
}

// NewRootCommand builds the ledger command tree reading from in and writing
// user output to out and diagnostics to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Track personal income and expenses",
		Long: `ledger keeps a list of income and expense transactions, shows
totals and a breakdown of expenses by category, and saves everything
to a CSV file (or SQLite, or a Google Sheet).

Without a subcommand it starts the interactive menu.

Example:
  ledger
  ledger add --type expense --amount 12.50 --category food
  ledger summary --file 2024.csv`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts, in, out, errOut)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file (default $LEDGER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.ledgerFile, "file", "", "ledger CSV file (default $LEDGER_FILE or transactions.csv)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCommand(opts, in, out, errOut),
		newAddCommand(opts, out, errOut),
		newSummaryCommand(opts, out, errOut),
		newListCommand(opts, out, errOut),
	)
	return rootCmd
}

// Execute runs the command tree against the process stdio.
func Execute() error {
	ctx, stop := ShutdownContext(context.Background())
	defer stop()

	LoadEnvFile()
	return NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRunCommand(opts *rootOptions, in io.Reader, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts, in, out, errOut)
		},
	}
}

func newAddCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	var input core.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one transaction and save",
		Long: `Record one transaction and save the ledger.

Example:
  ledger add --type income --amount 1000 --category salary --date 2024-01-31
  ledger add --type expense --amount 4.20 --category food --description coffee`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), opts, errOut, func(ctx context.Context, svc *services.LedgerService, _ *applog.Logger) error {
				if _, err := svc.Add(ctx, input); err != nil {
					return err
				}
				if err := svc.Save(ctx); err != nil {
					return fmt.Errorf("save ledger: %w", err)
				}
				fmt.Fprintln(out, "Transaction added.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Type, "type", "", "income or expense (required)")
	cmd.Flags().StringVar(&input.Amount, "amount", "", "amount greater than 0 (required)")
	cmd.Flags().StringVar(&input.Category, "category", "", "category, e.g. food, rent, salary")
	cmd.Flags().StringVar(&input.Description, "description", "", "free text description")
	cmd.Flags().StringVar(&input.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newSummaryCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals and expenses by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), opts, errOut, func(ctx context.Context, svc *services.LedgerService, logger *applog.Logger) error {
				logger.DebugContext(ctx, "Printing summary", applog.FieldOperation, applog.OpSummary, applog.FieldCount, svc.Count())
				tui.WriteSummary(out, svc.Summary())
				return nil
			})
		},
	}
}

func newListCommand(opts *rootOptions, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), opts, errOut, func(ctx context.Context, svc *services.LedgerService, logger *applog.Logger) error {
				logger.DebugContext(ctx, "Printing transactions", applog.FieldOperation, applog.OpList, applog.FieldCount, svc.Count())
				tui.WriteTransactions(out, svc.Transactions())
				return nil
			})
		},
	}
}

func runInteractive(ctx context.Context, opts *rootOptions, in io.Reader, out, errOut io.Writer) error {
	return withLedger(ctx, opts, errOut, func(ctx context.Context, svc *services.LedgerService, logger *applog.Logger) error {
		if n := svc.Count(); n > 0 {
			fmt.Fprintf(out, "Loaded %d transactions from file.\n", n)
		}
		menu := tui.New(svc, in, out, tui.WithLogger(logger.WithComponent(applog.ComponentTUI)))
		err := menu.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Warn("Interrupted, leaving without saving", applog.FieldOperation, applog.OpShutdown, applog.FieldCount, svc.Count())
		}
		return err
	})
}

// withLedger loads the ledger, runs fn and releases the backend whatever fn returns.
func withLedger(ctx context.Context, opts *rootOptions, errOut io.Writer, fn func(context.Context, *services.LedgerService, *applog.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := LoadAndValidateConfig(opts.cfgFile, opts.apply)
	if err != nil {
		applog.Default(applog.ComponentCLI).Error("Configuration validation failed", applog.NewFields().
			WithOperation(applog.OpValidate).
			WithErrorType(applog.ErrorTypeConfiguration).
			WithError(err).ToSlice()...)
		return err
	}
	logger := SetupLogger(cfg, errOut)

	svc, err := OpenLedger(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open ledger", applog.NewFields().
			WithOperation(applog.OpStartup).
			WithStorage(cfg.DataBackend, cfg.LedgerFile, 0).
			WithError(err).ToSlice()...)
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("Failed to release ledger resources", "error", cerr)
		}
	}()

	return fn(ctx, svc, logger)
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.ledgerFile != "" {
		cfg.LedgerFile = o.ledgerFile
	}
	if o.debug {
		cfg.LogLevel = "debug"
	}
}
