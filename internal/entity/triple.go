package entity

import "github.com/joseph-ayodele/vending-reports/constants"

// Slot indexes inside a Triple.
const (
	SlotCumul = iota
	SlotInterim
	SlotInterim2
)

// Triple holds the (Cumulative, Interim, Interim2) values of one field.
// Each slot is a canonical decimal string or "".
type Triple [3]string

// IsEmpty reports whether no slot holds a value.
func (t Triple) IsEmpty() bool {
	return t[SlotCumul] == "" && t[SlotInterim] == "" && t[SlotInterim2] == ""
}

func (t Triple) Cumul() string { return t[SlotCumul] }
func (t Triple) Interim() string { return t[SlotInterim] }
func (t Triple) Interim2() string { return t[SlotInterim2] }

// Fields maps every canonical field to its triple.
type Fields map[constants.Field]Triple

// NewFields returns a mapping with an empty triple for every canonical field.
func NewFields() Fields {
	all := constants.AllFields()
	out := make(Fields, len(all))
	for _, f := range all {
		out[f] = Triple{}
	}
	return out
}

// Clone copies the mapping.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Candidate is one parse attempt: a (text, window) pairing and its fields.
type Candidate struct {
	Source string // e.g. "native-layout@400"
	Fields Fields
}
