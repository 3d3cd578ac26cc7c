package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/ingest"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process report PDFs as they land in the input directory",
		Long: `watch keeps running until interrupted. Every new or rewritten PDF is
processed once it has been quiet for the debounce period; the whole
session is recorded as a single ledger run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				cfg.Input.WatchDebounce, _ = cmd.Flags().GetDuration("debounce")
			}
			initial, _ := cmd.Flags().GetBool("initial-scan")
			logger := newLogger(cfg.Runtime)
			ctx := common.WithLogger(cmd.Context(), logger)

			p, closeFn, err := newPipeline(ctx, cfg, logger, true)
			if err != nil {
				return err
			}
			defer closeFn()

			paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Dir:         cfg.Input.Dir,
				InitialScan: initial,
				Debounce:    cfg.Input.WatchDebounce,
			}, logger)
			if err != nil {
				return common.WrapError(err, "watch input directory")
			}
			go func() {
				for err := range errs {
					logger.Warn("watch.error", "error", err)
				}
			}()

			logger.Info("watch.started", "dir", cfg.Input.Dir, "output", cfg.Output.CSVPath)
			summary, err := p.Watch(ctx, paths)
			summary.Print(os.Stdout)
			return err
		},
	}
	cmd.Flags().Duration("debounce", 0, "quiet period before a new file is processed (WATCH_DEBOUNCE)")
	cmd.Flags().Bool("initial-scan", true, "process the PDFs already present when the watch starts")
	return cmd
}
