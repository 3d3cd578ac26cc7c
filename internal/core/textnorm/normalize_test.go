package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf and runs", "a \t b\r\n  c  \n", "a b\n c\n"},
		{"nbsp", "CA Total\u00a0 12", "CA Total 12"},
		{"keeps blank lines", "x\n\n\ny", "x\n\n\ny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestFlattenAndLines(t *testing.T) {
	if got := Flatten("CA Total\n\n  120,50 \t45 "); got != "CA Total 120,50 45" {
		t.Errorf("Flatten = %q", got)
	}
	want := []string{"a", "  b"}
	if got := Lines("a\n \n  b\n\n"); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %q, want %q", got, want)
	}
	if got := Lines(" \n"); got != nil {
		t.Errorf("Lines of blank text = %q", got)
	}
}

func TestStripBoxNoise(t *testing.T) {
	if got := StripBoxNoise("x\n-----\n___\ny"); got != "x\n\n\ny" {
		t.Errorf("StripBoxNoise = %q", got)
	}
	for _, keep := range []string{"a -- b", "|||", "Total 1 = 2"} {
		if got := StripBoxNoise(keep); got != keep {
			t.Errorf("StripBoxNoise(%q) = %q, want unchanged", keep, got)
		}
	}
}
