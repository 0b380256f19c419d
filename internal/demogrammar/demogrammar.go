// Package demogrammar builds the tiny grammar+lexicon pair covering
// spec.md's worked example E1 ("Ása sá sól."), used by cmd/greina and
// cmd/greinaserver when the caller gives no --lexicon/--grammar-cache
// flags. The grammar's BNF surface syntax and its loader are an external
// collaborator per spec.md §1; a real deployment compiles a
// *grammar.Grammar from that external loader (or from
// internal/cache.GrammarCache) rather than this demo.
package demogrammar

import (
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/token"
)

// Build constructs the demo grammar and lexicon, plus a ReverseIndex
// (internal/simplify.Inflector) covering the same handful of forms, so
// callers can exercise noun-phrase inflection against the demo data
// without a production BÍN-backed lexicon.
func Build() (*grammar.Grammar, *lexicon.Lexicon, *lexicon.ReverseIndex, error) {
	b := lexicon.NewBuilder(lexicon.Alphabet{})
	b.Add("Ása", token.Meaning{Lemma: "Ása", WordClass: "no", Features: "et nf kvk"})
	b.Add("Ásu", token.Meaning{Lemma: "Ása", WordClass: "no", Features: "et þf kvk"})
	b.Add("sá", token.Meaning{Lemma: "sjá", WordClass: "so", Features: "et p3"})
	b.Add("sól", token.Meaning{Lemma: "sól", WordClass: "no", Features: "et þf kvk"})
	b.Add("sólin", token.Meaning{Lemma: "sól", WordClass: "no", Features: "et nf kvk gr"})
	buf, err := b.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	lex, err := lexicon.LoadBytes(buf)
	if err != nil {
		return nil, nil, nil, err
	}
	rev := b.ReverseIndex()

	terms := []*grammar.Terminal{
		grammar.NewWordClass("no_et_nf_kvk", grammar.CatNo, []string{"et", "nf", "kvk"}, 0),
		grammar.NewWordClass("no_et_thf_kvk", grammar.CatNo, []string{"et", "þf", "kvk"}, 0),
		grammar.NewWordClass("so_1_thf_et_p3", grammar.CatSo, []string{"et", "p3"}, 0),
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"S-MAIN", "punct_period"}},
		{Head: "S-MAIN", Body: []string{"IP"}},
		{Head: "IP", Body: []string{"NP-SUBJ", "VP"}},
		{Head: "NP-SUBJ", Body: []string{"no_et_nf_kvk"}},
		{Head: "VP", Body: []string{"so_1_thf_et_p3", "NP-OBJ"}},
		{Head: "NP-OBJ", Body: []string{"no_et_thf_kvk"}},
	}
	g, err := grammar.New("S0", prods, terms)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, lex, rev, nil
}
