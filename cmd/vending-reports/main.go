package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vending-reports",
		Short: "Extract turnover and sales figures from vending machine report PDFs",
		Long: `vending-reports reads every report PDF of a directory, recovers the
turnover and sales tables, counters and codes, and appends one row per
report to a CSV table. Reports below the completeness threshold get
diagnostic side files next to them.

Settings come from the environment (and an optional .env file); flags
override them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringP("input", "i", "", "input directory holding the report PDFs (INPUT_DIR)")
	f.StringP("output", "o", "", "output CSV table, appended to when it exists (OUTPUT_CSV)")
	f.String("labels", "", "JSON file with extra label variants (LABELS_FILE)")
	f.Int("min-score", 0, "completeness a report needs to succeed (MIN_SCORE)")
	f.Int("workers", 0, "documents processed concurrently (WORKERS)")
	f.Bool("no-ocr", false, "disable the OCR backend (OCR_ENABLED=false)")
	f.Bool("no-diagnostics", false, "do not write diagnostic side files (DIAGNOSTICS=false)")
	f.String("ledger-dsn", "", "run ledger: SQLite path or postgres:// URL (LEDGER_DSN)")
	f.Bool("no-ledger", false, "do not record runs (LEDGER_ENABLED=false)")
	f.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	f.String("log-format", "", "text or json (LOG_FORMAT)")

	rootCmd.AddCommand(runCmd(), watchCmd(), exportCmd(), historyCmd())
	return rootCmd
}
