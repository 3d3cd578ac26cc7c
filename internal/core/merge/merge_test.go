package merge

import (
	"testing"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

func fields(set map[constants.Field]entity.Triple) entity.Fields {
	f := entity.NewFields()
	for k, v := range set {
		f[k] = v
	}
	return f
}

func TestScore(t *testing.T) {
	f := fields(map[constants.Field]entity.Triple{
		constants.TurnoverTotal: {"1", "2", ""},
		constants.SalesTotal:    {"7**1/2", "3.5", "x"},
	})
	if got := Score(f); got != 3 {
		t.Errorf("Score = %d, want 3", got)
	}
	if got := Score(entity.NewFields()); got != 0 {
		t.Errorf("empty score = %d", got)
	}
}

func TestSelectBest(t *testing.T) {
	one := fields(map[constants.Field]entity.Triple{constants.TurnoverTotal: {"1", "", ""}})
	two := fields(map[constants.Field]entity.Triple{constants.TurnoverTotal: {"1", "2", ""}})
	tests := []struct {
		name  string
		cands []entity.Candidate
		want  int
	}{
		{"empty", nil, -1},
		{"highest wins", []entity.Candidate{{Fields: one}, {Fields: two}}, 1},
		{"tie goes to earliest", []entity.Candidate{{Fields: two}, {Fields: one}, {Fields: two}}, 0},
		{"all empty", []entity.Candidate{{Fields: entity.NewFields()}, {Fields: entity.NewFields()}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectBest(tt.cands); got != tt.want {
				t.Errorf("SelectBest = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFillNeverOverwrites(t *testing.T) {
	base := fields(map[constants.Field]entity.Triple{constants.TurnoverTotal: {"1", "", ""}})
	sup := fields(map[constants.Field]entity.Triple{
		constants.TurnoverTotal: {"9", "8", ""},
		constants.SalesCash:     {"4", "", "6"},
	})
	got := Fill(base, sup)
	if got[constants.TurnoverTotal] != (entity.Triple{"1", "8", ""}) {
		t.Errorf("total = %q", got[constants.TurnoverTotal])
	}
	if got[constants.SalesCash] != (entity.Triple{"4", "", "6"}) {
		t.Errorf("sales cash = %q", got[constants.SalesCash])
	}
	if base[constants.TurnoverTotal] != (entity.Triple{"1", "", ""}) {
		t.Error("Fill modified its input")
	}
}

func TestMerge(t *testing.T) {
	a := fields(map[constants.Field]entity.Triple{constants.TurnoverTotal: {"1", "2", ""}})
	b := fields(map[constants.Field]entity.Triple{constants.TurnoverCash: {"3", "4", "5"}})
	c := fields(map[constants.Field]entity.Triple{constants.TurnoverTotal: {"9", "9", "9"}})

	res := Merge([]entity.Candidate{{Source: "a", Fields: a}, {Source: "b", Fields: b}, {Source: "c", Fields: c}})
	if res.Base != 1 {
		t.Errorf("base = %d, want 1 (tie with c goes to the earlier candidate)", res.Base)
	}
	if want := []int{2, 3, 3}; len(res.Scores) != 3 || res.Scores[0] != want[0] || res.Scores[1] != want[1] || res.Scores[2] != want[2] {
		t.Errorf("scores = %v, want %v", res.Scores, want)
	}
	if res.Fields[constants.TurnoverTotal] != (entity.Triple{"1", "2", "9"}) {
		t.Errorf("total = %q, earlier supplements must win", res.Fields[constants.TurnoverTotal])
	}
	if res.Fields[constants.TurnoverCash] != (entity.Triple{"3", "4", "5"}) {
		t.Errorf("cash = %q", res.Fields[constants.TurnoverCash])
	}
	if res.Score != 6 || res.Score < res.Scores[res.Base] {
		t.Errorf("score = %d", res.Score)
	}

	empty := Merge(nil)
	if empty.Base != -1 || empty.Score != 0 || len(empty.Fields) != len(constants.AllFields()) {
		t.Errorf("empty merge = %+v", empty)
	}
}
