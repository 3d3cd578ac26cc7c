package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/repository"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs from the ledger, or the documents of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return common.NewAppError(common.CodeConfig, "history needs the ledger", common.ErrInvalidInput)
			}
			logger := newLogger(cfg.Runtime)
			ctx := cmd.Context()

			db, err := openLedger(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repository.Close(db, logger)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			if runID, _ := cmd.Flags().GetString("run"); runID != "" {
				id, err := uuid.Parse(runID)
				if err != nil {
					return common.NewAppError(common.CodeConfig, "invalid run id", common.ErrInvalidInput)
				}
				docs, err := repository.NewDocumentRepository(db, logger).ListByRun(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "DOCUMENT\tSTATUS\tSCORE\tTEXT\tDURATION\tERROR")
				for _, d := range docs {
					errMsg := ""
					if d.ErrorMessage != nil {
						errMsg = *d.ErrorMessage
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", d.Name, d.Status, d.Score, d.PrimaryStrategy,
						time.Duration(d.DurationMillis)*time.Millisecond, errMsg)
				}
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := repository.NewRunRepository(db, logger).List(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tTOTAL\tOK\tFAILED\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n", r.ID, r.StartedAt.Local().Format("02/01/2006 15:04:05"),
					r.Status, r.Total, r.Succeeded, r.Failed, r.OutputPath)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "number of runs to list")
	cmd.Flags().String("run", "", "list the documents of this run id")
	return cmd
}
