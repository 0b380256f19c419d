// Package reduce selects a single best derivation from an SPPF by
// scoring every packed alternative and collapsing each ambiguous node to
// its winning child (spec.md §4.5).
package reduce

// Scoring is the explicit scoring policy consumed by Reduce. Per
// spec.md §9 this is an ordinary value with no global state; the exact
// weights are implementation-tuned, so callers should treat them as
// configurable and only rely on the ordering properties documented in
// spec.md §8.
type Scoring struct {
	// MeaningRankWeight scales the per-meaning frequency rank: a
	// candidate drawn from an earlier (more frequent) lexicon meaning
	// scores higher. Subtracted per rank position.
	MeaningRankWeight float64

	// VariantSpecificityWeight rewards terminals that pin more variants
	// (spec.md §4.2 "variant specificity").
	VariantSpecificityWeight float64

	// ProductionPriorityWeight scales a production's Priority field
	// (lower priority wins, spec.md §4.5 point 2); subtracted per unit
	// of priority so that priority 0 is neutral.
	ProductionPriorityWeight float64

	// NodeBonus is added once per internal (non-leaf) node combined; a
	// positive value nudges the reducer toward derivations with more
	// internal nodes when all else ties.
	NodeBonus float64

	// EpsilonScore is the score of an epsilon node, and of a symbol node
	// with no packed alternative. A unit node with a child is scored like
	// any other internal node (child score plus NodeBonus).
	EpsilonScore float64

	// AdjectivePredicates is a lemma-keyed bonus/penalty table applied to
	// "lo" (adjective) candidates (spec.md §4.5 point 1).
	AdjectivePredicates map[string]float64

	// StaticPhrases and AmbiguousPhrases are lemma-keyed bonus tables:
	// a candidate whose meaning's lemma is a recognized fixed idiom or a
	// commonly-misparsed phrase gets the matching bonus, approximating
	// spec.md §4.5 point 3's "fixed idioms ... outweigh their
	// word-by-word decompositions" at the per-terminal level (a full
	// phrase-span recognizer is out of scope here).
	StaticPhrases    map[string]float64
	AmbiguousPhrases map[string]float64

	// VerbArgs is lemma -> argspec -> bonus, where argspec is all of the
	// verb terminal's pinned variants, sorted lexically and joined with a
	// space (e.g. "et p3 þf þgf" for so_þgf_þf_et_p3): a terminal whose variants match a known argument frame for
	// that verb lemma scores the table's bonus, implementing spec.md
	// §4.5 point 3's "verb-argument agreement ... outweighs generic
	// readings".
	VerbArgs map[string]map[string]float64

	// Prepositions is lemma -> case -> bonus: a preposition candidate
	// pinning a case variant with a table entry for its lemma scores
	// that bonus (spec.md §4.5 point 1's "preposition tables").
	Prepositions map[string]map[string]float64

	// UnknownWordPenalty is subtracted once for every scanned word
	// token that carried no lexicon meanings at all (spec.md §4.5 point
	// 4: "penalize unknown words proportionally to their count").
	UnknownWordPenalty float64

	// RarePOSPenalty is subtracted for a candidate drawn from a
	// word class that rarely heads a well-formed parse on its own
	// (spec.md §4.5 point 4: "penalize rare part-of-speech choices").
	RarePOSPenalty float64

	// NamedEntityMisclassificationPenalty is subtracted when a
	// typed-token named-entity category (person, entity, company,
	// street) matches a token whose surface form does not look like a
	// proper noun (spec.md §4.5 point 4: "penalize unlikely named-entity
	// classifications").
	NamedEntityMisclassificationPenalty float64
}

// DefaultScoring is a reasonable, documented starting point; every field
// is a plain additive weight so callers can override individual terms.
var DefaultScoring = Scoring{
	MeaningRankWeight:        1.0,
	VariantSpecificityWeight: 2.0,
	ProductionPriorityWeight: 5.0,
	NodeBonus:                0.1,
	EpsilonScore:             0,

	AdjectivePredicates: map[string]float64{},
	StaticPhrases:       map[string]float64{},
	AmbiguousPhrases:    map[string]float64{},
	VerbArgs:            map[string]map[string]float64{},
	Prepositions:        map[string]map[string]float64{},

	UnknownWordPenalty:                  3.0,
	RarePOSPenalty:                      1.0,
	NamedEntityMisclassificationPenalty: 2.0,
}

// rareWordClasses names the word classes spec.md §4.2 lists that rarely
// head a correct parse on their own (interjections, bound/indeclinable
// forms); a candidate drawn from one of these takes RarePOSPenalty.
var rareWordClasses = map[string]bool{
	"uh":   true, // interjection
	"abfn": true, // reflexive pronoun
	"nhm":  true, // infinitive marker
}
