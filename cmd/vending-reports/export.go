package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/vending-reports/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the CSV table into an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Runtime)

			xlsxPath, _ := cmd.Flags().GetString("xlsx")
			if xlsxPath == "" {
				xlsxPath = cfg.Output.XLSXPath
			}
			if xlsxPath == "" {
				xlsxPath = "extraction.xlsx"
			}
			rows, err := export.WriteXLSX(cfg.Output.CSVPath, xlsxPath, logger)
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %d rows to %s\n", rows, xlsxPath)
			return nil
		},
	}
	cmd.Flags().String("xlsx", "", "workbook path (OUTPUT_XLSX, default extraction.xlsx)")
	return cmd
}
