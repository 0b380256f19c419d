package lexicon

import (
	"sort"
	"strings"
)

// ReverseIndex is the reverse of Lookup: lemma/word-class/variant-set ->
// surface form. Built directly from the same (form, meanings) pairs
// registered with a Builder, per the packed lexicon's own documented
// extension point (a second, reverse index built at packing time).
// Satisfies internal/simplify.Inflector.
type ReverseIndex struct {
	entries map[string]map[string]string // lemma|wordClass -> sorted-variant key -> form
}

// ReverseIndex builds a ReverseIndex from the entries already registered
// with b via Add, so it always stays in sync with whatever Build packs
// into the forward lexicon.
func (b *Builder) ReverseIndex() *ReverseIndex {
	idx := &ReverseIndex{entries: make(map[string]map[string]string)}
	for form, meanings := range b.entries {
		for _, m := range meanings {
			key := m.Lemma + "|" + m.WordClass
			if idx.entries[key] == nil {
				idx.entries[key] = make(map[string]string)
			}
			idx.entries[key][sortedVariantKey(strings.Fields(m.Features))] = form
		}
	}
	return idx
}

// Inflect returns the surface form registered for lemma/wordClass under
// the given variant set, ignoring variant order.
func (r *ReverseIndex) Inflect(lemma, wordClass string, variants []string) (string, bool) {
	forms, ok := r.entries[lemma+"|"+wordClass]
	if !ok {
		return "", false
	}
	form, ok := forms[sortedVariantKey(variants)]
	return form, ok
}

func sortedVariantKey(variants []string) string {
	cp := append([]string(nil), variants...)
	sort.Strings(cp)
	return strings.Join(cp, " ")
}
