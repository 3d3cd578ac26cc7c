package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	sink := NewCSVSink(csvPath, nil)
	if err := sink.Append(record("TOUCH 7", entity.Triple{"120.50", "45", ""})); err != nil {
		t.Fatal(err)
	}
	_ = sink.Close()

	xlsxPath := filepath.Join(dir, "out.xlsx")
	n, err := WriteXLSX(csvPath, xlsxPath, nil)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("sheet rows = %d, want 2", len(rows))
	}
	if rows[0][2] != "Numéro de relevé" || rows[1][0] != "TOUCH 7" {
		t.Errorf("unexpected cells %q / %q", rows[0][2], rows[1][0])
	}

	typ, err := f.GetCellType(SheetName, "D2")
	if err != nil {
		t.Fatal(err)
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		t.Errorf("D2 type = %v, want number", typ)
	}
	if v, _ := f.GetCellValue(SheetName, "D2"); v != "120.5" {
		t.Errorf("D2 = %q", v)
	}
	if v, _ := f.GetCellValue(SheetName, "AN2"); v != "12**1/2" {
		t.Errorf("AN2 = %q", v)
	}
}
