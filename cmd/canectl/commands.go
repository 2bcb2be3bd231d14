package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canefarm/database"
	"canefarm/pkg/calc"
	"canefarm/pkg/cycle"
)

var (
	seedFile string

	roiArea  float64
	roiCycle int
	roiPrice float64

	cfBalance  float64
	cfRevenue  float64
	cfExpenses float64
	cfMonths   int

	exportOut   string
	exportSafra string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the schema and seed the default categories",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load plots, categories and products from a YAML fixture",
	Long: `Loads a YAML fixture into the store. Without --file the bundled
demo farm (19 plots and a starter product catalog) is loaded.

Example:
  canectl seed --file farm.yaml`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Estimate the return of reforming a plot",
	Args:  cobra.NoArgs,
	RunE:  runROI,
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Project a constant monthly result over a number of months",
	Args:  cobra.NoArgs,
	RunE:  runCashFlow,
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Analyze plot consolidation opportunities for the stored plots",
	Args:  cobra.NoArgs,
	RunE:  runConsolidate,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export spreadsheets",
}

var exportPlotsCmd = &cobra.Command{
	Use:   "plots",
	Short: "Export every plot with its current cycle",
	Args:  cobra.NoArgs,
	RunE:  runExportPlots,
}

var exportCashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Export a stored safra projection or an ad-hoc one",
	Args:  cobra.NoArgs,
	RunE:  runExportCashFlow,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("schema ready", zap.String("driver", a.Store.Driver()))
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %s (%s)\n", a.Cfg.DBPath, a.Store.Driver())
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var (
		f   database.Fixture
		err error
	)
	if seedFile != "" {
		f, err = database.LoadFixture(seedFile)
	} else {
		f, err = database.SampleFixture()
	}
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := database.SeedFixture(ctx, a.Store, a.Table, f)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("seed applied", zap.Int("plots", rep.Plots), zap.Int("products", rep.Products))
	return printJSON(cmd, rep)
}

func runROI(cmd *cobra.Command, args []string) error {
	if roiArea <= 0 {
		return fmt.Errorf("--area must be greater than zero")
	}
	if roiCycle < 0 {
		return fmt.Errorf("--cycle must not be negative")
	}
	price := roiPrice
	if price <= 0 {
		price = loadConfig().PricePerKgATR
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Área (ha)\t%.2f\n", roiArea)
	fmt.Fprintf(w, "Ciclo\t%d (%s)\n", roiCycle, cycle.Default().Name(roiCycle))
	fmt.Fprintf(w, "Preço kg ATR\t%.3f\n", price)
	fmt.Fprintf(w, "Custo da reforma\t%.2f\n", calc.ReformCost(roiArea))
	fmt.Fprintf(w, "Produtividade esperada (t/ha)\t%.2f\n", calc.ExpectedProductivity(calc.BaselineProductivity, roiCycle))
	fmt.Fprintf(w, "ROI (%%)\t%.2f\n", calc.ReformROI(roiArea, roiCycle, price))
	return w.Flush()
}

func runCashFlow(cmd *cobra.Command, args []string) error {
	if cfMonths <= 0 || cfMonths > 120 {
		return fmt.Errorf("--months must be between 1 and 120")
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Mês\tReceita\tDespesas\tSaldo\t")
	for _, m := range calc.CashFlowProjection(cfBalance, cfRevenue, cfExpenses, cfMonths) {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t\n", m.Month, m.Revenue, m.Expenses, m.Balance)
	}
	return w.Flush()
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Analysis.Consolidation(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func runExportPlots(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := a.Reports.Plots(ctx, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
	return nil
}

func runExportCashFlow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if exportSafra == "" && (cfMonths <= 0 || cfMonths > 120) {
		return fmt.Errorf("--months must be between 1 and 120")
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if exportSafra != "" {
		err = a.Reports.SafraCashFlow(ctx, exportSafra, out)
	} else {
		err = a.Reports.CashFlow(out, cfBalance, cfRevenue, cfExpenses, cfMonths)
	}
	if err != nil {
		out.Close()
		os.Remove(exportOut)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
	return nil
}
