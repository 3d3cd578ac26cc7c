package parse

import (
	"strings"
	"testing"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

func TestParse(t *testing.T) {
	p := NewParser(nil)
	tests := []struct {
		name string
		text string
		want map[constants.Field]entity.Triple
	}{
		{
			name: "triple and partial",
			text: "CA Total 120,50 45€ 3.2\nCA Espèces 10 5\n",
			want: map[constants.Field]entity.Triple{
				constants.TurnoverTotal: {"120.50", "45", "3.2"},
				constants.TurnoverCash:  {"10", "5", ""},
				constants.SalesTotal:    {},
			},
		},
		{
			name: "column headings are not values",
			text: "CA Total\nCumul Interim 1 Interim 2\n100 50 10\n",
			want: map[constants.Field]entity.Triple{
				constants.TurnoverTotal: {"100", "50", "10"},
			},
		},
		{
			name: "sales total shadows bare total",
			text: "Ventes Total 30 20 10\n",
			want: map[constants.Field]entity.Triple{
				constants.SalesTotal:    {"30", "20", "10"},
				constants.TurnoverTotal: {},
			},
		},
		{
			name: "aztek shadows plain cashless",
			text: "Cashless 1 Aztek 9\n",
			want: map[constants.Field]entity.Triple{
				constants.TurnoverCashless1Aztek: {"9", "", ""},
				constants.TurnoverCashless1:      {},
				constants.TurnoverCash:           {},
			},
		},
		{
			name: "label across line break",
			text: "CA\nTotal\n7",
			want: map[constants.Field]entity.Triple{
				constants.TurnoverTotal: {"7", "", ""},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text, NarrowWindow)
			if len(got) != len(constants.AllFields()) {
				t.Fatalf("fields = %d, want every canonical field", len(got))
			}
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("%s = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	text := "CA Total " + strings.Repeat("lorem ", 80) + "5 6 7"
	p := NewParser(nil)

	if got := p.Parse(text, NarrowWindow)[constants.TurnoverTotal]; !got.IsEmpty() {
		t.Errorf("narrow window reached past the filler: %q", got)
	}
	if got := p.Parse(text, WideWindow)[constants.TurnoverTotal]; got != (entity.Triple{"5", "6", "7"}) {
		t.Errorf("wide window = %q", got)
	}
}

func TestParseDegenerate(t *testing.T) {
	p := NewParser(nil)
	for _, tc := range []struct {
		text   string
		window int
	}{
		{"CA Total 1 2 3", 0},
		{"", NarrowWindow},
		{" \n\t", NarrowWindow},
	} {
		got := p.Parse(tc.text, tc.window)
		for f, tr := range got {
			if !tr.IsEmpty() {
				t.Errorf("Parse(%q, %d): %s = %q", tc.text, tc.window, f, tr)
			}
		}
	}
}

func TestMaskIndexedLabels(t *testing.T) {
	got := maskIndexedLabels(" interim 2 key 1 code gratuit 3 cashless2 12")
	if want := " interim # key # code gratuit # cashless# 12"; got != want {
		t.Errorf("mask = %q, want %q", got, want)
	}
}
