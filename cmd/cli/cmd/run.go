package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/adapters/csvdata"
	"github.com/Verman94/PriceWebApp/core/engine"
	"github.com/Verman94/PriceWebApp/core/exception"
	"github.com/Verman94/PriceWebApp/core/pricing"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/logging"
	"github.com/Verman94/PriceWebApp/internal/store"
)

var (
	runMethod string
	runOutDir string
	runSave   bool
)

// runCmd executes the pricing pipeline on a dataset directory
var runCmd = &cobra.Command{
	Use:   "run [dataset directory]",
	Short: "Price a dataset snapshot",
	Long: `Run loads the input tables from a directory of CSV files, executes
the full cost and pricing pipeline, and writes the priced short and full
product lists next to the inputs (or to --out).`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runMethod, "method", "", "base-price method: Original Price, New Gross or Price Diff")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "output directory (default: the dataset directory)")
	runCmd.Flags().BoolVar(&runSave, "save", false, "archive the run in the snapshot store")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg := config.Get()
	if runMethod != "" {
		cfg.Method = pricing.Method(runMethod)
	}

	ds, warnings, err := csvdata.LoadDataset(dir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logging.Warn("dataset load", zap.String("warning", w))
	}

	rules := exception.Defaults()
	if cfg.ExceptionFile != "" {
		if rules, err = exception.Load(cfg.ExceptionFile); err != nil {
			return err
		}
	}

	result, err := engine.Run(ds, cfg, rules)
	if err != nil {
		return err
	}

	outDir := runOutDir
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	shortOut := filepath.Join(outDir, "dom_short_priced.csv")
	fullOut := filepath.Join(outDir, "dom_all_priced.csv")
	if err := csvdata.WriteProducts(shortOut, result.Dataset.ShortList); err != nil {
		return err
	}
	if err := csvdata.WriteProducts(fullOut, result.Dataset.FullList); err != nil {
		return err
	}

	if runSave {
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveRun(context.Background(), result)
		if err != nil {
			return err
		}
		fmt.Printf("Run archived as %s\n", id)
	}

	fmt.Printf("Priced %d short-list and %d full-list products with method %q in %s\n",
		len(result.Dataset.ShortList), len(result.Dataset.FullList), result.Method, result.Duration)
	fmt.Printf("Input hash: %s\n", result.InputHash)
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Printf("Wrote %s and %s\n", shortOut, fullOut)
	return nil
}
