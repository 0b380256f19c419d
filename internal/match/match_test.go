package match

import (
	"testing"

	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	terms := []*grammar.Terminal{
		grammar.NewWordClass("no_et_nf_kvk", grammar.CatNo, []string{"et", "nf", "kvk"}, 0),
		grammar.NewWordClass("so_1_þf_et_p3", grammar.CatSo, []string{"1", "þf", "et", "p3"}, 0),
		grammar.NewWordClass("no", grammar.CatNo, nil, 10),
		grammar.NewLiteral(`"."`, grammar.CatLiteralWord, ".", 0),
		grammar.NewLiteral("'sjá'", grammar.CatLiteralLemma, "sjá", 0),
		grammar.NewWordClass("person_kk_nf", grammar.CatPerson, []string{"kk", "nf"}, 0),
	}
	g, err := grammar.New("S0", []grammar.Production{{Head: "S0", Body: []string{"no"}}}, terms)
	require.NoError(t, err)
	return g
}

func TestMatchWordClassRequiresAllVariants(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindWord, "sól", 0)
	tok.Meanings = []token.Meaning{
		{Lemma: "sól", WordClass: "no", Features: "et nf kvk"},
	}
	cands := matchToken(g, tok)

	var names []string
	for _, c := range cands {
		names = append(names, c.Terminal.Name)
	}
	assert.Contains(t, names, "no_et_nf_kvk")
	assert.Contains(t, names, "no") // broader terminal with no variants also matches
}

func TestMatchWordClassRejectsMissingVariant(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindWord, "sól", 0)
	tok.Meanings = []token.Meaning{
		{Lemma: "sól", WordClass: "no", Features: "ft nf kvk"}, // plural, not et
	}
	cands := matchToken(g, tok)
	for _, c := range cands {
		assert.NotEqual(t, "no_et_nf_kvk", c.Terminal.Name)
	}
}

func TestMatchLiteralWordCaseNeutral(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindPunctuation, ".", 0)
	cands := matchToken(g, tok)
	require.Len(t, cands, 1)
	assert.Equal(t, `"."`, cands[0].Terminal.Name)
}

func TestMatchLiteralLemma(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindWord, "sá", 0)
	tok.Meanings = []token.Meaning{{Lemma: "sjá", WordClass: "so", Features: "1 þf et p3"}}
	cands := matchToken(g, tok)

	var names []string
	for _, c := range cands {
		names = append(names, c.Terminal.Name)
	}
	assert.Contains(t, names, "'sjá'")
	assert.Contains(t, names, "so_1_þf_et_p3")
}

func TestMatchTypedTokenPerson(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindPerson, "Jón", 0)
	tok.PersonGender = token.GenderMasculine
	cands := matchToken(g, tok)
	require.Len(t, cands, 1)
	assert.Equal(t, "person_kk_nf", cands[0].Terminal.Name)
}

func TestBuildLattice(t *testing.T) {
	g := testGrammar(t)
	tok := token.New(token.KindWord, "sól", 0)
	tok.Meanings = []token.Meaning{{Lemma: "sól", WordClass: "no", Features: "et nf kvk"}}
	lat := Build(g, []token.Token{tok})
	require.Len(t, lat, 1)
	assert.NotEmpty(t, lat[0].Candidates)
}
