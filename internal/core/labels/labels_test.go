package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/vending-reports/constants"
)

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Espèces":            "especes",
		"CHIFFRE D’AFFAIRES": "chiffre d'affaires",
		"Numéro de relevé":   "numero de releve",
		"45€":                "45€",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultSet(t *testing.T) {
	s := Default()
	if got := len(s.Fields()); got != len(constants.AllFields()) {
		t.Fatalf("fields = %d", got)
	}
	if f, ok := s.Lookup("  ca ESPÈCES "); !ok || f != constants.TurnoverCash {
		t.Errorf("Lookup = %q %v", f, ok)
	}
	if d := s.Dictionary(constants.GroupSales); d == nil || d.Group() != constants.GroupSales || len(d.Fields()) != len(constants.SalesFields) {
		t.Errorf("sales dictionary = %+v", d)
	}
	folded := s.Folded(constants.TurnoverTotal)
	for i := 1; i < len(folded); i++ {
		if len(folded[i]) > len(folded[i-1]) {
			t.Errorf("variants not longest first: %q", folded)
			break
		}
	}
}

func TestMatch(t *testing.T) {
	s := Default()
	tests := []struct {
		text  string
		field constants.Field
		ok    bool
	}{
		{"Ventes Cashless 1 Aztek 3 4", constants.SalesCashless1Aztek, true},
		{"CA Cashless 2 : 10", constants.TurnoverCashless2, true},
		{"Ventes Total 30", constants.SalesTotal, true},
		{"Numéro de relevé : 4", "", false},
	}
	for _, tt := range tests {
		f, _, ok := s.Match(tt.text)
		if ok != tt.ok || f != tt.field {
			t.Errorf("Match(%q) = %q %v, want %q %v", tt.text, f, ok, tt.field, tt.ok)
		}
	}
}

func TestShadowed(t *testing.T) {
	s := Default()
	if !s.Shadowed("cashless 1 aztek 5", 0, len("cashless 1"), constants.TurnoverCashless1) {
		t.Error("cashless 1 inside cashless 1 aztek should be shadowed")
	}
	flat := "ventes total 30"
	if !s.Shadowed(flat, strings.Index(flat, "total"), len("total"), constants.TurnoverTotal) {
		t.Error("total inside ventes total should be shadowed")
	}
	flat = "ca total 5"
	if s.Shadowed(flat, strings.Index(flat, "total"), len("total"), constants.TurnoverTotal) {
		t.Error("a longer variant of the same field does not shadow")
	}
}

func TestBuildRejectsConflicts(t *testing.T) {
	if _, err := Build(map[constants.Field][]string{constants.TurnoverTotal: {"Cash"}}); err == nil {
		t.Error("a variant claimed by two fields must be rejected")
	}
	d := NewDictionary(constants.GroupSales)
	if err := d.Add(constants.TurnoverTotal, "Total"); err == nil {
		t.Error("adding a turnover field to the sales dictionary must fail")
	}
	if err := d.Add(constants.SalesTotal, " "); err == nil {
		t.Error("empty variant must fail")
	}
	if err := d.Add(constants.SalesTotal, "Vente Total", "VENTE TOTAL"); err != nil || len(d.Variants(constants.SalesTotal)) != 1 {
		t.Errorf("fold-equal variants should collapse: %v %q", err, d.Variants(constants.SalesTotal))
	}
}

func TestParseOverrides(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"variants": {"CA total": ["Total CA TTC"], "Vente Espece": ["Cash vend"]}}`, false},
		{"unknown field", `{"variants": {"CA bogus": ["x"]}}`, true},
		{"empty list", `{"variants": {"CA total": []}}`, true},
		{"empty string", `{"variants": {"CA total": [""]}}`, true},
		{"missing variants", `{}`, true},
		{"extra key", `{"variants": {}, "x": 1}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverrides([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got[constants.SalesCash][0] != "Cash vend" {
				t.Errorf("decoded = %v", got)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	if err := os.WriteFile(path, []byte(`{"variants": {"CA total": ["Total CA TTC"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f, ok := s.Lookup("total ca ttc"); !ok || f != constants.TurnoverTotal {
		t.Errorf("override not indexed: %q %v", f, ok)
	}
	if _, ok := s.Lookup("CA Total"); !ok {
		t.Error("built-in variants must survive overrides")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
	if s, err := Load(""); err != nil || s == nil {
		t.Errorf("empty path should give defaults: %v", err)
	}
}
