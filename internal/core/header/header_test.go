package header

import (
	"testing"

	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

func TestExtract(t *testing.T) {
	text := "Relevé machine\n" +
		"Touch 12 Gare du Nord 01/02/2024 10:00\n" +
		"Numéro de relevé : 381\n" +
		"Code gratuit 1 : 5\n" +
		"Code gratuit 2 : 7**1/2\n" +
		"Code gratuit 2 : 99\n" +
		"Code gratuit 9 : 3\n" +
		"key 1 : ABC9\n"

	md := NewExtractor("", 0).Extract(text)
	if md.ID != "Touch 12 Gare du Nord" {
		t.Errorf("ID = %q", md.ID)
	}
	if md.Date != "01/02/2024" || md.ReportNumber != "381" || md.Key1 != "ABC9" {
		t.Errorf("metadata = %+v", md)
	}
	if md.FreeCodes[0] != "5" || md.FreeCodes[1] != "7**1/2" {
		t.Errorf("free codes = %q", md.FreeCodes)
	}
	for i := 2; i < len(md.FreeCodes); i++ {
		if md.FreeCodes[i] != "" {
			t.Errorf("free code %d = %q, want empty", i+1, md.FreeCodes[i])
		}
	}
}

func TestExtractVariants(t *testing.T) {
	tests := []struct {
		name string
		ex   *Extractor
		text string
		want entity.Metadata
	}{
		{"empty", NewExtractor("", 0), "", entity.Metadata{}},
		{"english report number", NewExtractor("", 0), "Report number: 12", entity.Metadata{ReportNumber: "12"}},
		{"brand beyond scan range", NewExtractor("TOUCH", 1), "first\nTOUCH 3", entity.Metadata{}},
		{"custom brand", NewExtractor("vendo", 0), "VENDO Lyon 2", entity.Metadata{ID: "VENDO Lyon 2"}},
		{"codes across lines", NewExtractor("", 0), "Code gratuit 3 :\n42", entity.Metadata{FreeCodes: [7]string{2: "42"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ex.Extract(tt.text); got != tt.want {
				t.Errorf("Extract = %+v, want %+v", got, tt.want)
			}
		})
	}
}
