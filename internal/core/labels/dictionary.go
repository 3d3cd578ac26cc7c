// Package labels holds the label dictionaries: canonical fields mapped to
// the surface forms that name them in a report.
package labels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joseph-ayodele/vending-reports/constants"
)

// Dictionary maps the canonical fields of one group to their variants.
type Dictionary struct {
	group    constants.Group
	fields   []constants.Field
	variants map[constants.Field][]string // surface forms, insertion order
	folded   map[constants.Field][]string // folded forms, longest first
}

// NewDictionary returns an empty dictionary for a group.
func NewDictionary(group constants.Group) *Dictionary {
	return &Dictionary{
		group:    group,
		variants: make(map[constants.Field][]string),
		folded:   make(map[constants.Field][]string),
	}
}

// Group returns the group the dictionary covers.
func (d *Dictionary) Group() constants.Group { return d.group }

// Fields returns the fields of the dictionary in registration order.
func (d *Dictionary) Fields() []constants.Field { return d.fields }

// Variants returns the surface forms registered for f.
func (d *Dictionary) Variants(f constants.Field) []string { return d.variants[f] }

// Add registers surface forms for f. Variants are only ever added;
// one folding to an already known form is ignored.
func (d *Dictionary) Add(f constants.Field, variants ...string) error {
	if f.Group() != d.group {
		return fmt.Errorf("field %q does not belong to group %q", f, d.group)
	}
	for _, v := range variants {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty variant for field %q", f)
		}
	}
	if _, ok := d.variants[f]; !ok {
		d.fields = append(d.fields, f)
		d.variants[f] = nil
	}
	for _, v := range variants {
		v = strings.TrimSpace(v)
		key := Fold(v)
		if containsString(d.folded[f], key) {
			continue
		}
		d.variants[f] = append(d.variants[f], v)
		d.folded[f] = append(d.folded[f], key)
	}
	sortLongestFirst(d.folded[f])
	return nil
}

// Set is the combined view over every dictionary. Its reverse index lets a
// matched variant resolve to its field in O(1), and lets the parser reject
// a short variant that sits inside a longer variant of another field.
type Set struct {
	dicts   []*Dictionary
	reverse map[string]constants.Field
	all     []string // folded variants of every field, longest first
}

// NewSet indexes the given dictionaries. A folded variant claimed by two
// different fields is a programming error in the built-in data.
func NewSet(dicts ...*Dictionary) *Set {
	s, err := buildSet(dicts)
	if err != nil {
		panic(err)
	}
	return s
}

func buildSet(dicts []*Dictionary) (*Set, error) {
	s := &Set{dicts: dicts, reverse: make(map[string]constants.Field)}
	for _, d := range dicts {
		for _, f := range d.fields {
			for _, key := range d.folded[f] {
				if owner, ok := s.reverse[key]; ok && owner != f {
					return nil, fmt.Errorf("variant %q claimed by %q and %q", key, owner, f)
				}
				s.reverse[key] = f
			}
		}
	}
	s.all = make([]string, 0, len(s.reverse))
	for key := range s.reverse {
		s.all = append(s.all, key)
	}
	sortLongestFirst(s.all)
	return s, nil
}

// Dictionary returns the dictionary of a group, or nil.
func (s *Set) Dictionary(g constants.Group) *Dictionary {
	for _, d := range s.dicts {
		if d.group == g {
			return d
		}
	}
	return nil
}

// Fields returns every field of every dictionary, in dictionary order.
func (s *Set) Fields() []constants.Field {
	var out []constants.Field
	for _, d := range s.dicts {
		out = append(out, d.fields...)
	}
	return out
}

// Folded returns the folded variants of f, longest first.
func (s *Set) Folded(f constants.Field) []string {
	for _, d := range s.dicts {
		if v, ok := d.folded[f]; ok {
			return v
		}
	}
	return nil
}

// Lookup resolves a variant (any case or accents) to its field.
func (s *Set) Lookup(variant string) (constants.Field, bool) {
	f, ok := s.reverse[Fold(strings.TrimSpace(variant))]
	return f, ok
}

// Shadowed reports whether the occurrence of a variant of f at
// folded[pos:pos+n] lies inside an occurrence of a longer variant that
// belongs to a different field ("cashless 1" inside "cashless 1 aztek",
// "total" inside "ventes total").
func (s *Set) Shadowed(folded string, pos, n int, f constants.Field) bool {
	for _, other := range s.all {
		if len(other) <= n {
			break
		}
		if s.reverse[other] == f {
			continue
		}
		lo := pos + n - len(other)
		if lo < 0 {
			lo = 0
		}
		for start := lo; start <= pos; start++ {
			if strings.HasPrefix(folded[start:], other) {
				return true
			}
		}
	}
	return false
}

// Match returns the field named by the most specific variant contained in
// text, if any. The scan is plain substring containment.
func (s *Set) Match(text string) (constants.Field, string, bool) {
	folded := Fold(text)
	for _, key := range s.all {
		if strings.Contains(folded, key) {
			return s.reverse[key], key, true
		}
	}
	return "", "", false
}

func sortLongestFirst(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
