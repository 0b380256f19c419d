// Package match implements the terminal matcher (spec.md §4.3): for each
// (position, token), the set of terminals the token can realize, each
// annotated with the meaning that justified the match.
package match

import (
	"strings"

	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/token"
)

// Candidate is one (terminal, meaning) pairing accepted for a token.
// Meaning is the zero value for typed tokens, where the token's own
// intrinsic descriptor justifies the match instead.
type Candidate struct {
	Terminal *grammar.Terminal
	Meaning  token.Meaning

	// MeaningRank is the index of Meaning within its token's Meanings
	// slice: lexicon mapping order doubles as a frequency rank (earlier
	// = more frequent), consumed by the reducer's scoring (spec.md
	// §4.5 "word class and meaning rank inside the lexicon"). Zero for
	// matches with no underlying meaning (literal-word, typed-token).
	MeaningRank int
}

// LatticeEntry is the set of terminals a single token can realize.
type LatticeEntry struct {
	Token      token.Token
	Candidates []Candidate
}

// Lattice is the token lattice of spec.md §3: one LatticeEntry per input
// position.
type Lattice []LatticeEntry

// Build constructs the token lattice for a tokenized sentence against a
// grammar. Matching is a pure relation; Build never mutates its inputs.
func Build(g *grammar.Grammar, tokens []token.Token) Lattice {
	lat := make(Lattice, len(tokens))
	for i, tok := range tokens {
		lat[i] = LatticeEntry{Token: tok, Candidates: matchToken(g, tok)}
	}
	return lat
}

func matchToken(g *grammar.Grammar, tok token.Token) []Candidate {
	var out []Candidate
	for _, term := range g.Terminals() {
		out = append(out, matchTerminal(term, tok)...)
	}
	return out
}

func matchTerminal(term *grammar.Terminal, tok token.Token) []Candidate {
	switch term.Category {
	case grammar.CatLiteralWord:
		if strings.EqualFold(term.Literal, tok.Text()) {
			return []Candidate{{Terminal: term}}
		}
		return nil
	case grammar.CatLiteralLemma:
		if !tok.IsWord() {
			return nil
		}
		var out []Candidate
		for i, m := range tok.Meanings {
			if strings.EqualFold(term.Literal, m.Lemma) {
				out = append(out, Candidate{Terminal: term, Meaning: m, MeaningRank: i})
			}
		}
		return out
	}

	if term.Category.IsWordClass() {
		return matchWordClass(term, tok)
	}
	return matchTypedToken(term, tok)
}

// matchWordClass matches a word-class terminal against each of a word
// token's candidate meanings: "a terminal of category C with variant set
// V matches a meaning with word class C' and feature set F iff C ⊇ C'
// ... and V ⊆ F" (spec.md §4.3). This implementation's terminal
// categories are concrete (not themselves a hierarchy), so "C ⊇ C'"
// reduces to category equality; grammars that want a broader terminal
// define it with the broader category directly, matching how the taxonomy
// in spec.md §4.2 is used in practice (e.g. a bare "no" terminal already
// accepts any noun variant).
func matchWordClass(term *grammar.Terminal, tok token.Token) []Candidate {
	if !tok.IsWord() {
		return nil
	}
	var out []Candidate
	for i, m := range tok.Meanings {
		if m.WordClass != string(term.Category) {
			continue
		}
		if variantsSatisfied(term, m) {
			out = append(out, Candidate{Terminal: term, Meaning: m, MeaningRank: i})
		}
	}
	return out
}

func variantsSatisfied(term *grammar.Terminal, m token.Meaning) bool {
	for _, v := range term.Variants.Sorted() {
		if !m.HasVariant(v) {
			return false
		}
	}
	return true
}

// matchTypedToken matches the typed-token terminal categories of
// spec.md §4.3 against a token's intrinsic kind, further filtered by any
// variant constraints against the token's payload (e.g. "person_kk_nf").
func matchTypedToken(term *grammar.Terminal, tok token.Token) []Candidate {
	want, ok := typedTokenKind(term.Category)
	if !ok || tok.Kind() != want {
		return nil
	}
	if !typedVariantsSatisfied(term, tok) {
		return nil
	}
	return []Candidate{{Terminal: term}}
}

func typedTokenKind(cat grammar.Category) (token.Kind, bool) {
	switch cat {
	case grammar.CatPerson:
		return token.KindPerson, true
	case grammar.CatEntity, grammar.CatSernafn, grammar.CatFyrirtaeki, grammar.CatGata:
		return token.KindEntity, true
	case grammar.CatTalaTok:
		return token.KindNumber, true
	case grammar.CatProsenta:
		return token.KindPercent, true
	case grammar.CatArtal:
		return token.KindYear, true
	case grammar.CatRadnr:
		return token.KindOrdinal, true
	case grammar.CatSequence:
		return token.KindSequence, true
	case grammar.CatDagsfost:
		return token.KindDateAbs, true
	case grammar.CatDagsafs:
		return token.KindDateRel, true
	case grammar.CatTimi:
		return token.KindTime, true
	case grammar.CatTimapunktur:
		return token.KindTimestamp, true
	case grammar.CatLen:
		return token.KindDomain, true
	case grammar.CatMyllumerki:
		return token.KindHashtag, true
	case grammar.CatTolvupostfang:
		return token.KindEmail, true
	case grammar.CatGrm:
		return token.KindCurrency, true
	default:
		return 0, false
	}
}

// typedVariantsSatisfied applies the small set of variant constraints
// that make sense for typed tokens: gender, for person/entity terminals.
func typedVariantsSatisfied(term *grammar.Terminal, tok token.Token) bool {
	if term.Variants.Len() == 0 {
		return true
	}
	for _, v := range term.Variants.Sorted() {
		switch v {
		case string(token.GenderMasculine), string(token.GenderFeminine), string(token.GenderNeuter):
			if string(tok.PersonGender) != v {
				return false
			}
		case "nf", "þf", "þgf", "ef":
			// Typed tokens carry no case of their own; a case variant on
			// a typed terminal is satisfied vacuously, matching
			// spec.md §4.3's description of variant constraints as
			// payload filters rather than hard requirements for kinds
			// that have no such payload.
		default:
			// Unrecognized variant on a typed terminal: conservatively
			// fail the match rather than silently accept it.
			return false
		}
	}
	return true
}
