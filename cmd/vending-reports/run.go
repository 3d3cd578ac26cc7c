package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/export"
	"github.com/joseph-ayodele/vending-reports/internal/ingest"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every PDF of the input directory once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("skip-processed") {
				cfg.Input.SkipProcessed, _ = cmd.Flags().GetBool("skip-processed")
			}
			if cmd.Flags().Changed("xlsx") {
				cfg.Output.XLSXPath, _ = cmd.Flags().GetString("xlsx")
			}
			logger := newLogger(cfg.Runtime)
			ctx := common.WithLogger(cmd.Context(), logger)

			paths, stats, err := ingest.ListPDFs(cfg.Input.Dir)
			if err != nil {
				return common.WrapError(err, "list input directory")
			}
			logger.Info("run.input.scanned",
				"dir", cfg.Input.Dir,
				"scanned", stats.Scanned,
				"matched", stats.Matched,
				"skipped", stats.Skipped,
			)

			p, closeFn, err := newPipeline(ctx, cfg, logger, cfg.Input.SkipProcessed)
			if err != nil {
				return err
			}
			summary, runErr := p.Run(ctx, paths)
			closeFn()
			summary.Print(os.Stdout)
			if runErr != nil {
				return runErr
			}

			if cfg.Output.XLSXPath != "" && summary.Total > 0 {
				rows, err := export.WriteXLSX(cfg.Output.CSVPath, cfg.Output.XLSXPath, logger)
				if err != nil {
					return err
				}
				cmd.Printf("Workbook: %s (%d rows)\n", cfg.Output.XLSXPath, rows)
			}
			return nil
		},
	}
	cmd.Flags().Bool("skip-processed", false, "skip documents the ledger already holds as succeeded (SKIP_PROCESSED)")
	cmd.Flags().String("xlsx", "", "also write the table as an Excel workbook (OUTPUT_XLSX)")
	return cmd
}
