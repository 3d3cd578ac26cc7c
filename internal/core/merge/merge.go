// Package merge scores parse candidates and folds them into one record.
//
// The policy is conservative gap filling: the highest scoring candidate is
// the base and the others only ever fill its empty slots.
package merge

import (
	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/core/numeric"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// Score counts the non-empty, numerically valid slots of fields.
func Score(fields entity.Fields) int {
	n := 0
	for _, t := range fields {
		for _, v := range t {
			if v != "" && numeric.IsValid(v) {
				n++
			}
		}
	}
	return n
}

// SelectBest returns the index of the highest scoring candidate; ties go to
// the earliest one. It returns -1 for an empty slice.
func SelectBest(cands []entity.Candidate) int {
	best, bestScore := -1, -1
	for i, c := range cands {
		if s := Score(c.Fields); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// Fill returns a copy of base where every empty slot takes the value of the
// same slot in supplement. Non-empty base slots are never touched.
func Fill(base, supplement entity.Fields) entity.Fields {
	out := base.Clone()
	for _, f := range constants.AllFields() {
		t := out[f]
		s := supplement[f]
		for i := range t {
			if t[i] == "" && s[i] != "" {
				t[i] = s[i]
			}
		}
		out[f] = t
	}
	return out
}

// Result is the outcome of merging a candidate set.
type Result struct {
	Fields entity.Fields
	Base   int   // index of the base candidate, -1 when there was none
	Scores []int // per candidate, input order
	Score  int   // score of Fields
}

// Merge selects the base candidate and back-fills it from the others in
// input order.
func Merge(cands []entity.Candidate) Result {
	res := Result{Base: SelectBest(cands), Scores: make([]int, len(cands))}
	for i, c := range cands {
		res.Scores[i] = Score(c.Fields)
	}
	if res.Base < 0 {
		res.Fields = entity.NewFields()
		return res
	}
	res.Fields = cands[res.Base].Fields.Clone()
	for i, c := range cands {
		if i == res.Base {
			continue
		}
		res.Fields = Fill(res.Fields, c.Fields)
	}
	res.Score = Score(res.Fields)
	return res
}
