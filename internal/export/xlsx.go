package export

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/vending-reports/internal/core/numeric"
)

// SheetName is the worksheet holding the mirrored table.
const SheetName = "Reports"

// WriteXLSX mirrors the CSV table at csvPath into a workbook at xlsxPath.
// Field slots that hold a valid number become numeric cells; everything
// else stays text. It returns the number of data rows written.
func WriteXLSX(csvPath, xlsxPath string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	header, rows, err := ReadCSV(csvPath)
	if err != nil {
		return 0, err
	}
	if header == nil {
		header = Header()
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	numericCols := fieldColumns(header)
	for r, rec := range rows {
		row := r + 2
		for c, v := range rec {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if numericCols[c] && numeric.IsValid(v) {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					_ = f.SetCellValue(SheetName, cell, n)
					continue
				}
			}
			_ = f.SetCellStr(SheetName, cell, v)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 36) // id
	_ = f.SetColWidth(SheetName, "B", "B", 12) // date
	_ = f.SetColWidth(SheetName, "C", "C", 18) // report number
	if last, err := excelize.ColumnNumberToName(len(header)); err == nil && len(header) > 3 {
		_ = f.SetColWidth(SheetName, "D", last, 14)
	}
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})

	if err := f.SaveAs(xlsxPath); err != nil {
		return 0, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"path", xlsxPath,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return len(rows), nil
}

// fieldColumns marks the triple columns: everything between the three
// leading header columns and the trailing codes.
func fieldColumns(header []string) map[int]bool {
	want := make(map[string]bool)
	for _, h := range Header()[3 : len(Header())-8] {
		want[h] = true
	}
	out := make(map[int]bool, len(want))
	for i, h := range header {
		if want[h] {
			out[i] = true
		}
	}
	return out
}
