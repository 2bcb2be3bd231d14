// Command canectl runs farm maintenance and what-if calculations against the
// same store the HTTP server uses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canefarm/config"
	"canefarm/internal/app"
)

var (
	// Global flags
	verbose    bool
	dbPath     string
	driver     string
	cycleTable string
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "canectl",
	Short: "canectl - sugarcane farm management toolkit",
	Long: `canectl manages the farm database outside of the HTTP server.

It migrates and seeds the store, runs the reform and cash-flow calculators
and exports spreadsheets for plots and projections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (default: DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Storage driver sqlite|memory (default: STORAGE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&cycleTable, "cycle-table", "", "CSV/XLSX cycle table override")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixture to load (default: bundled sample farm)")

	roiCmd.Flags().Float64Var(&roiArea, "area", 0, "Plot area in hectares")
	roiCmd.Flags().IntVar(&roiCycle, "cycle", 0, "Current cycle of the plot")
	roiCmd.Flags().Float64Var(&roiPrice, "price", 0, "Price per kg of ATR (default: PRICE_PER_KG_ATR)")
	_ = roiCmd.MarkFlagRequired("area")

	cashflowCmd.Flags().Float64Var(&cfBalance, "balance", 0, "Starting balance")
	cashflowCmd.Flags().Float64Var(&cfRevenue, "revenue", 0, "Monthly revenue")
	cashflowCmd.Flags().Float64Var(&cfExpenses, "expenses", 0, "Monthly expenses")
	cashflowCmd.Flags().IntVar(&cfMonths, "months", 12, "Months to project")

	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "Output .xlsx file (required)")
	_ = exportCmd.MarkPersistentFlagRequired("out")
	exportCashflowCmd.Flags().StringVar(&exportSafra, "safra", "", "Export the stored projection of this safra")
	exportCashflowCmd.Flags().Float64Var(&cfBalance, "balance", 0, "Starting balance")
	exportCashflowCmd.Flags().Float64Var(&cfRevenue, "revenue", 0, "Monthly revenue")
	exportCashflowCmd.Flags().Float64Var(&cfExpenses, "expenses", 0, "Monthly expenses")
	exportCashflowCmd.Flags().IntVar(&cfMonths, "months", 12, "Months to project")

	exportCmd.AddCommand(exportPlotsCmd)
	exportCmd.AddCommand(exportCashflowCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(roiCmd)
	rootCmd.AddCommand(cashflowCmd)
	rootCmd.AddCommand(consolidateCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the global flag overrides.
// Seeding is always explicit on the command line.
func loadConfig() config.AppConfig {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if driver != "" {
		cfg.StorageDriver = driver
	}
	if cycleTable != "" {
		cfg.CycleTable = cycleTable
	}
	cfg.SeedFile = ""
	return cfg
}

func openApp(ctx context.Context) (*app.App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return app.Open(ctx, loadConfig(), logger)
}

func commandContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
