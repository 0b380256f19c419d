package sentence

import (
	"testing"

	"github.com/fjalar/setningar/internal/config"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/simplify"
	"github.com/fjalar/setningar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildParser(t *testing.T) *Parser {
	t.Helper()

	b := lexicon.NewBuilder(lexicon.DefaultAlphabet)
	b.Add("Ása", token.Meaning{Lemma: "Ása", WordClass: "no", Features: "et nf kvk"})
	b.Add("sá", token.Meaning{Lemma: "sjá", WordClass: "so", Features: "et p3"})
	b.Add("sól", token.Meaning{Lemma: "sól", WordClass: "no", Features: "et þf kvk"})
	buf, err := b.Build()
	require.NoError(t, err)
	lex, err := lexicon.LoadBytes(buf)
	require.NoError(t, err)

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
	require.NoError(t, err)

	return NewParser(g, lex, config.Default(), simplify.DefaultRules())
}

func asaSaaSolTokens() []token.Token {
	return []token.Token{
		token.New(token.KindWord, "Ása", 0),
		token.New(token.KindWord, "sá", 1),
		token.New(token.KindWord, "sól", 2),
		token.New(token.KindPunctuation, ".", 3),
	}
}

func TestParseSentenceE1(t *testing.T) {
	p := buildParser(t)
	s := p.ParseSentence("Ása sá sól.", asaSaaSolTokens())

	require.True(t, s.Ok())
	require.NotNil(t, s.Tree)
	assert.Equal(t, []string{"Ása", "sól"}, s.Tree.Nouns())
	assert.Equal(t, []string{"sjá"}, s.Tree.Verbs())
	assert.Greater(t, s.Score, 0.0)

	dump := s.Dump()
	assert.Equal(t, "Ása sá sól.", dump.Text)
	assert.Contains(t, dump.FlatTree, "NP-SUBJ")
}

func TestParseSentenceUnknownWordIsNotForeignButFailsToParse(t *testing.T) {
	p := buildParser(t)
	toks := asaSaaSolTokens()
	toks[0] = token.New(token.KindWord, "Xyzzy", 0) // not in lexicon
	s := p.ParseSentence("Xyzzy sá sól.", toks)

	// foreign-ratio default threshold is 0.5; one unknown of three words
	// (1/3) should not trip it, but parsing fails since no terminal
	// matches the unknown word.
	require.False(t, s.Ok())
	assert.Equal(t, 0, s.Err.Index)
}

func TestRunJobPreservesOrderAndStats(t *testing.T) {
	p := buildParser(t)
	inputs := []SentenceInput{
		{Text: "Ása sá sól.", Tokens: asaSaaSolTokens()},
		{Text: "Ása sá sól.", Tokens: asaSaaSolTokens()},
	}
	job := p.RunJob(inputs)

	require.Len(t, job.Sentences, 2)
	assert.Equal(t, 2, job.Stats.SentenceCount)
	assert.Equal(t, 2, job.Stats.ParsedCount)
	for _, s := range job.Sentences {
		assert.True(t, s.Ok())
	}
}

// buildE2Parser grounds spec.md §8 scenario E2 ("Litla gula hænan fann
// fræ."): a multi-adjective NP-SUBJ with three flat leaves.
func buildE2Parser(t *testing.T) *Parser {
	t.Helper()

	b := lexicon.NewBuilder(lexicon.DefaultAlphabet)
	b.Add("Litla", token.Meaning{Lemma: "lítill", WordClass: "lo", Features: "nf et kvk"})
	b.Add("gula", token.Meaning{Lemma: "gulur", WordClass: "lo", Features: "nf et kvk"})
	b.Add("hænan", token.Meaning{Lemma: "hæna", WordClass: "no", Features: "nf et kvk gr"})
	b.Add("fann", token.Meaning{Lemma: "finna", WordClass: "so", Features: "et p3"})
	b.Add("fræ", token.Meaning{Lemma: "fræ", WordClass: "no", Features: "et þf hk"})
	buf, err := b.Build()
	require.NoError(t, err)
	lex, err := lexicon.LoadBytes(buf)
	require.NoError(t, err)

	terms := []*grammar.Terminal{
		grammar.NewWordClass("lo_nf_et_kvk", grammar.CatLo, []string{"nf", "et", "kvk"}, 0),
		grammar.NewWordClass("no_et_nf_kvk", grammar.CatNo, []string{"et", "nf", "kvk"}, 0),
		grammar.NewWordClass("so_1_thf_et_p3", grammar.CatSo, []string{"et", "p3"}, 0),
		grammar.NewWordClass("no_et_thf_hk", grammar.CatNo, []string{"et", "þf", "hk"}, 0),
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"S-MAIN", "punct_period"}},
		{Head: "S-MAIN", Body: []string{"IP"}},
		{Head: "IP", Body: []string{"NP-SUBJ", "VP"}},
		{Head: "NP-SUBJ", Body: []string{"lo_nf_et_kvk", "lo_nf_et_kvk", "no_et_nf_kvk"}},
		{Head: "VP", Body: []string{"so_1_thf_et_p3", "NP-OBJ"}},
		{Head: "NP-OBJ", Body: []string{"no_et_thf_hk"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	return NewParser(g, lex, config.Default(), simplify.DefaultRules())
}

func TestParseSentenceE2MultiAdjectiveSubject(t *testing.T) {
	p := buildE2Parser(t)
	toks := []token.Token{
		token.New(token.KindWord, "Litla", 0),
		token.New(token.KindWord, "gula", 1),
		token.New(token.KindWord, "hænan", 2),
		token.New(token.KindWord, "fann", 3),
		token.New(token.KindWord, "fræ", 4),
		token.New(token.KindPunctuation, ".", 5),
	}
	s := p.ParseSentence("Litla gula hænan fann fræ.", toks)

	require.True(t, s.Ok())
	subj := s.Tree.Find("NP-SUBJ")
	require.Len(t, subj, 1)
	require.Len(t, subj[0].Children, 3)
	assert.Equal(t, "Litla", subj[0].Children[0].Leaf.Token.Text())
	assert.Equal(t, "gula", subj[0].Children[1].Leaf.Token.Text())
	assert.Equal(t, "hænan", subj[0].Children[2].Leaf.Token.Text())
	assert.Equal(t, []string{"lítill", "gulur", "hæna", "finna", "fræ", "."}, s.Tree.Lemmas())
}

// buildE3Parser grounds spec.md §8 scenario E3 ("Jón greiddi bænum 10
// milljónir króna."): a two-argument verb with NP-IOBJ, and an NP-OBJ
// carrying a numeral, a noun, and a nested NP-POSS.
func buildE3Parser(t *testing.T) *Parser {
	t.Helper()

	b := lexicon.NewBuilder(lexicon.DefaultAlphabet)
	b.Add("Jón", token.Meaning{Lemma: "Jón", WordClass: "no", Features: "nf et kk"})
	b.Add("greiddi", token.Meaning{Lemma: "greiða", WordClass: "so", Features: "et p3"})
	b.Add("bænum", token.Meaning{Lemma: "bær", WordClass: "no", Features: "þgf et kk"})
	b.Add("milljónir", token.Meaning{Lemma: "milljón", WordClass: "no", Features: "ft þf kvk"})
	b.Add("króna", token.Meaning{Lemma: "króna", WordClass: "no", Features: "ft ef kvk"})
	buf, err := b.Build()
	require.NoError(t, err)
	lex, err := lexicon.LoadBytes(buf)
	require.NoError(t, err)

	terms := []*grammar.Terminal{
		grammar.NewWordClass("no_nf_et_kk", grammar.CatNo, []string{"nf", "et", "kk"}, 0),
		grammar.NewWordClass("so_2_thgf_thf_et_p3", grammar.CatSo, []string{"et", "p3"}, 0),
		grammar.NewWordClass("no_et_thgf_kk", grammar.CatNo, []string{"þgf", "et", "kk"}, 0),
		grammar.NewWordClass("tala_tok", grammar.CatTalaTok, nil, 0),
		grammar.NewWordClass("no_ft_thf_kvk", grammar.CatNo, []string{"ft", "þf", "kvk"}, 0),
		grammar.NewWordClass("no_ft_ef_kvk", grammar.CatNo, []string{"ft", "ef", "kvk"}, 0),
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"S-MAIN", "punct_period"}},
		{Head: "S-MAIN", Body: []string{"IP"}},
		{Head: "IP", Body: []string{"NP-SUBJ", "VP"}},
		{Head: "NP-SUBJ", Body: []string{"no_nf_et_kk"}},
		{Head: "VP", Body: []string{"so_2_thgf_thf_et_p3", "NP-IOBJ", "NP-OBJ"}},
		{Head: "NP-IOBJ", Body: []string{"no_et_thgf_kk"}},
		{Head: "NP-OBJ", Body: []string{"tala_tok", "no_ft_thf_kvk", "NP-POSS"}},
		{Head: "NP-POSS", Body: []string{"no_ft_ef_kvk"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	return NewParser(g, lex, config.Default(), simplify.DefaultRules())
}

func TestParseSentenceE3TwoArgumentVerb(t *testing.T) {
	p := buildE3Parser(t)
	toks := []token.Token{
		token.New(token.KindWord, "Jón", 0),
		token.New(token.KindWord, "greiddi", 1),
		token.New(token.KindWord, "bænum", 2),
		token.New(token.KindNumber, "10", 3),
		token.New(token.KindWord, "milljónir", 4),
		token.New(token.KindWord, "króna", 5),
		token.New(token.KindPunctuation, ".", 6),
	}
	s := p.ParseSentence("Jón greiddi bænum 10 milljónir króna.", toks)

	require.True(t, s.Ok())
	vp := s.Tree.Find("VP")
	require.NotEmpty(t, vp)
	require.Len(t, vp[0].Children, 3)

	iobj := s.Tree.Find("NP-IOBJ")
	require.Len(t, iobj, 1)
	assert.Equal(t, "bænum", iobj[0].Children[0].Leaf.Token.Text())

	obj := s.Tree.Find("NP-OBJ")
	require.Len(t, obj, 1)
	require.Len(t, obj[0].Children, 3)
	assert.Equal(t, "10", obj[0].Children[0].Leaf.Token.Text())
	assert.Equal(t, "milljónir", obj[0].Children[1].Leaf.Token.Text())

	poss := s.Tree.Find("NP-POSS")
	require.Len(t, poss, 1)
	assert.Equal(t, "króna", poss[0].Children[0].Leaf.Token.Text())
}

// buildE4Parser grounds spec.md §8 scenario E4 ("Seldum fasteignum hefur
// fjölgað."): a VP-AUX auxiliary split from the main verb's supine form.
func buildE4Parser(t *testing.T) *Parser {
	t.Helper()

	b := lexicon.NewBuilder(lexicon.DefaultAlphabet)
	b.Add("Seldum", token.Meaning{Lemma: "seldur", WordClass: "lo", Features: "þgf ft kvk"})
	b.Add("fasteignum", token.Meaning{Lemma: "fasteign", WordClass: "no", Features: "þgf ft kvk"})
	b.Add("hefur", token.Meaning{Lemma: "hafa", WordClass: "so", Features: "et p3"})
	b.Add("fjölgað", token.Meaning{Lemma: "fjölga", WordClass: "so", Features: "sagnb"})
	buf, err := b.Build()
	require.NoError(t, err)
	lex, err := lexicon.LoadBytes(buf)
	require.NoError(t, err)

	terms := []*grammar.Terminal{
		grammar.NewWordClass("lo_thgf_ft_kvk", grammar.CatLo, []string{"þgf", "ft", "kvk"}, 0),
		grammar.NewWordClass("no_ft_thgf_kvk", grammar.CatNo, []string{"þgf", "ft", "kvk"}, 0),
		grammar.NewWordClass("so_et_p3", grammar.CatSo, []string{"et", "p3"}, 0),
		grammar.NewWordClass("so_sagnb", grammar.CatSo, []string{"sagnb"}, 0),
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"S-MAIN", "punct_period"}},
		{Head: "S-MAIN", Body: []string{"IP"}},
		{Head: "IP", Body: []string{"NP-SUBJ", "VP"}},
		{Head: "NP-SUBJ", Body: []string{"lo_thgf_ft_kvk", "no_ft_thgf_kvk"}},
		{Head: "VP", Body: []string{"VP-AUX", "VP"}},
		{Head: "VP-AUX", Body: []string{"so_et_p3"}},
		{Head: "VP", Body: []string{"so_sagnb"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	return NewParser(g, lex, config.Default(), simplify.DefaultRules())
}

func TestParseSentenceE4AuxiliarySplit(t *testing.T) {
	p := buildE4Parser(t)
	toks := []token.Token{
		token.New(token.KindWord, "Seldum", 0),
		token.New(token.KindWord, "fasteignum", 1),
		token.New(token.KindWord, "hefur", 2),
		token.New(token.KindWord, "fjölgað", 3),
		token.New(token.KindPunctuation, ".", 4),
	}
	s := p.ParseSentence("Seldum fasteignum hefur fjölgað.", toks)

	require.True(t, s.Ok())
	vp := s.Tree.Find("VP")
	require.Len(t, vp, 3, "outer VP, VP-AUX (partial-tag match) and the nested VP wrapping the supine form")
	require.Len(t, vp[0].Children, 2)

	aux := s.Tree.Find("VP-AUX")
	require.Len(t, aux, 1)
	assert.Equal(t, "hefur", aux[0].Children[0].Leaf.Token.Text())

	inner := vp[0].Children[1]
	assert.Equal(t, "VP", inner.Tag)
	assert.Equal(t, "fjölgað", inner.Children[0].Leaf.Token.Text())
}

// TestParseSentenceE5InflectsNounPhrase grounds spec.md §8 scenario E5:
// re-rendering a parsed NP-SUBJ under a different case via a
// lexicon.ReverseIndex built from the same Builder entries used for
// forward lookup (internal/lexicon.ReverseIndex implements
// internal/simplify.Inflector).
func TestParseSentenceE5InflectsNounPhrase(t *testing.T) {
	b := lexicon.NewBuilder(lexicon.DefaultAlphabet)
	b.Add("Tveir", token.Meaning{Lemma: "tveir", WordClass: "to", Features: "ft nf kk"})
	b.Add("tveimur", token.Meaning{Lemma: "tveir", WordClass: "to", Features: "ft þgf kk"})
	b.Add("pokar", token.Meaning{Lemma: "poki", WordClass: "no", Features: "ft nf kk"})
	b.Add("pokum", token.Meaning{Lemma: "poki", WordClass: "no", Features: "ft þgf kk"})
	b.Add("duttu", token.Meaning{Lemma: "detta", WordClass: "so", Features: "ft p3"})
	buf, err := b.Build()
	require.NoError(t, err)
	lex, err := lexicon.LoadBytes(buf)
	require.NoError(t, err)
	rev := b.ReverseIndex()

	terms := []*grammar.Terminal{
		grammar.NewWordClass("to_ft_nf_kk", grammar.CatTo, []string{"ft", "nf", "kk"}, 0),
		grammar.NewWordClass("no_ft_nf_kk", grammar.CatNo, []string{"ft", "nf", "kk"}, 0),
		grammar.NewWordClass("so_ft_p3", grammar.CatSo, []string{"ft", "p3"}, 0),
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"S-MAIN", "punct_period"}},
		{Head: "S-MAIN", Body: []string{"IP"}},
		{Head: "IP", Body: []string{"NP-SUBJ", "VP"}},
		{Head: "NP-SUBJ", Body: []string{"to_ft_nf_kk", "no_ft_nf_kk"}},
		{Head: "VP", Body: []string{"so_ft_p3"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	p := NewParser(g, lex, config.Default(), simplify.DefaultRules())
	toks := []token.Token{
		token.New(token.KindWord, "Tveir", 0),
		token.New(token.KindWord, "pokar", 1),
		token.New(token.KindWord, "duttu", 2),
		token.New(token.KindPunctuation, ".", 3),
	}
	s := p.ParseSentence("Tveir pokar duttu.", toks)
	require.True(t, s.Ok())

	subj := s.Tree.Find("NP-SUBJ")
	require.Len(t, subj, 1)

	dative, ok := subj[0].InflectNounPhrase(rev, "þgf", false, false)
	require.True(t, ok)
	assert.Equal(t, "tveimur pokum", dative)
}

func TestSplitParagraphs(t *testing.T) {
	inputs := []SentenceInput{
		{Text: "[["},
		{Text: "Ása sá sól.", Tokens: asaSaaSolTokens()},
		{Text: "]]"},
		{Text: "[["},
		{Text: "Ása sá sól.", Tokens: asaSaaSolTokens()},
		{Text: "Ása sá sól.", Tokens: asaSaaSolTokens()},
		{Text: "]]"},
	}
	paras := SplitParagraphs(inputs)
	require.Len(t, paras, 2)
	assert.Len(t, paras[0], 1)
	assert.Len(t, paras[1], 2)
}
