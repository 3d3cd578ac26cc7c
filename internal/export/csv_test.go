package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

func record(id string, total entity.Triple) entity.Record {
	rec := entity.NewRecord(id + ".pdf")
	rec.Metadata.ID = id
	rec.Metadata.Date = "01/02/2024"
	rec.Metadata.FreeCodes[0] = "12**1/2"
	rec.Metadata.Key1 = "K1"
	rec.Fields[constants.TurnoverTotal] = total
	return rec
}

func TestHeader(t *testing.T) {
	h := Header()
	if len(h) != 47 {
		t.Fatalf("len(Header()) = %d, want 47", len(h))
	}
	checks := map[int]string{
		0:  "id",
		2:  "Numéro de relevé",
		3:  "CA total_Cumul",
		5:  "CA total_Interim2",
		21: "Vente Total_Cumul",
		38: "Vente Cashless2 Aztek_Interim2",
		39: "Code gratuit 1",
		45: "Code gratuit 7",
		46: "key 1",
	}
	for i, want := range checks {
		if h[i] != want {
			t.Errorf("Header()[%d] = %q, want %q", i, h[i], want)
		}
	}
}

func TestRow(t *testing.T) {
	row := Row(record("TOUCH 1", entity.Triple{"120.50", "45", ""}))
	if len(row) != len(Header()) {
		t.Fatalf("len(row) = %d", len(row))
	}
	if row[0] != "TOUCH 1" || row[3] != "120.50" || row[4] != "45" || row[5] != "" {
		t.Errorf("row = %v", row[:6])
	}
	if row[39] != "12**1/2" || row[46] != "K1" {
		t.Errorf("codes = %v", row[39:])
	}
}

func TestCSVSink_AppendAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	first := NewCSVSink(path, nil)
	if err := first.Append(record("a", entity.Triple{"1", "2", "3"})); err != nil {
		t.Fatal(err)
	}
	if err := first.Append(record("b", entity.Triple{"4", "", ""})); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := NewCSVSink(path, nil)
	if err := second.Append(record("c", entity.Triple{})); err != nil {
		t.Fatal(err)
	}
	_ = second.Close()

	header, rows, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(header, ",") != strings.Join(Header(), ",") {
		t.Errorf("header = %v", header)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, id := range []string{"a", "b", "c"} {
		if rows[i][0] != id {
			t.Errorf("row %d id = %q, want %q", i, rows[i][0], id)
		}
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "Numéro de relevé"); n != 1 {
		t.Errorf("header written %d times", n)
	}
	if second.Rows() != 1 {
		t.Errorf("Rows() = %d", second.Rows())
	}
}

func TestCSVSink_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"other table", "id,date\nx,y\n"},
		{"renamed column", strings.Replace(strings.Join(Header(), ","), "key 1", "key1", 1) + "\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			err := NewCSVSink(path, nil).Open()
			if !errors.Is(err, common.ErrSchemaMismatch) {
				t.Errorf("err = %v, want schema mismatch", err)
			}
			data, _ := os.ReadFile(path)
			if string(data) != tt.content {
				t.Error("mismatched table must be left untouched")
			}
		})
	}
}
