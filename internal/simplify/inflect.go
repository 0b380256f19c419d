package simplify

import (
	"strings"

	"github.com/fjalar/setningar/internal/grammar"
)

// Inflector generates the surface form for a given lemma/word-class
// under a target variant set: the reverse of lexicon.Lookup (form ->
// meanings). Per spec.md §1 ("helper façades for noun-phrase inflection
// ... specified only through their interfaces"), generating inflected
// forms from a lemma is an external collaborator's job — a real
// implementation wraps the same packed lexicon with a second, reverse
// index built at packing time. This package only consumes the
// interface.
type Inflector interface {
	Inflect(lemma, wordClass string, variants []string) (form string, ok bool)
}

// nounPhraseTags are the NP role tags InflectNounPhrase may be invoked
// on, per spec.md §4.6.
var nounPhraseTags = map[string]bool{
	"NP": true, "NP-SUBJ": true, "NP-OBJ": true, "NP-IOBJ": true,
	"NP-PRD": true, "NP-ADP": true, "NP-POSS": true, "NP-ADDR": true,
	"NP-TITLE": true, "NP-COMPANY": true, "NP-MEASURE": true, "NP-AGE": true,
}

// inflectedVariants rewrites a leaf's variant set to realize the
// requested case/definiteness/number, preserving every other feature
// (gender, degree, etc.) unchanged.
func inflectedVariants(all []string, caseVariant string, indefinite, singular bool) []string {
	out := make([]string, 0, len(all))
	for _, v := range all {
		switch v {
		case string(grammar.VarNf), string(grammar.VarThf), string(grammar.VarThgf), string(grammar.VarEf):
			continue // case is replaced below
		case string(grammar.VarGr):
			if indefinite {
				continue // drop the definite-article marker
			}
		case string(grammar.VarFt):
			if singular {
				continue
			}
		case string(grammar.VarEt):
			// already singular; keep
		default:
		}
		out = append(out, v)
	}
	out = append(out, caseVariant)
	if singular {
		hasNumber := false
		for _, v := range out {
			if v == string(grammar.VarEt) || v == string(grammar.VarFt) {
				hasNumber = true
			}
		}
		if !hasNumber {
			out = append(out, string(grammar.VarEt))
		}
	}
	return out
}

// InflectNounPhrase re-renders the noun phrase rooted at t (which must be
// tagged with one of the NP-* roles) in the requested case, optionally
// stripping definiteness and/or forcing singular number, by calling infl
// once per inflectable leaf and leaving non-word leaves (punctuation,
// typed tokens) as their original surface text. Returns ok=false if any
// leaf could not be inflected.
func (t *Tree) InflectNounPhrase(infl Inflector, caseVariant string, indefinite, singular bool) (string, bool) {
	var words []string
	ok := true
	for _, l := range t.Leaves() {
		if l.WordClass() == "" {
			words = append(words, l.Token.Text())
			continue
		}
		variants := inflectedVariants(l.AllVariants.Sorted(), caseVariant, indefinite, singular)
		form, inflOK := infl.Inflect(l.Lemma(), l.WordClass(), variants)
		if !inflOK {
			ok = false
			form = l.Token.Text()
		}
		words = append(words, form)
	}
	return strings.Join(words, " "), ok
}

// ThreeForms produces the three documented inflection forms of a noun
// phrase (spec.md §4.6): nominative, indefinite nominative, and singular
// indefinite nominative.
func (t *Tree) ThreeForms(infl Inflector) (nominative, indefNominative, singIndefNominative string, ok bool) {
	var allOK bool
	nominative, allOK = t.InflectNounPhrase(infl, string(grammar.VarNf), false, false)
	ok = allOK
	indefNominative, allOK = t.InflectNounPhrase(infl, string(grammar.VarNf), true, false)
	ok = ok && allOK
	singIndefNominative, allOK = t.InflectNounPhrase(infl, string(grammar.VarNf), true, true)
	ok = ok && allOK
	return nominative, indefNominative, singIndefNominative, ok
}

// IsNounPhrase reports whether tag names an NP role eligible for
// InflectNounPhrase.
func IsNounPhrase(tag string) bool {
	return nounPhraseTags[tag]
}
