package reduce

import (
	"testing"

	"github.com/fjalar/setningar/internal/earley"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceNilForestIsNullDerivation(t *testing.T) {
	d, stats := Reduce(nil, nil, DefaultScoring)
	assert.Nil(t, d)
	assert.Equal(t, Stats{}, stats)
}

func TestReducePicksHigherPriorityProduction(t *testing.T) {
	terms := []*grammar.Terminal{
		grammar.NewWordClass("no", grammar.CatNo, nil, 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"A"}, Priority: 5},
		{Head: "S0", Body: []string{"B"}, Priority: 0},
		{Head: "A", Body: []string{"no"}},
		{Head: "B", Body: []string{"no"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	tok := token.New(token.KindWord, "hús", 0)
	tok.Meanings = []token.Meaning{{Lemma: "hús", WordClass: "no", Features: "et nf hk"}}
	lat := match.Build(g, []token.Token{tok})

	root, err := earley.Parse(g, lat, earley.Config{})
	require.NoError(t, err)
	require.True(t, root.Ambiguous())

	d, stats := Reduce(root, lat, DefaultScoring)
	require.NotNil(t, d)
	assert.Equal(t, 1, stats.AmbiguousNodes)
	assert.Equal(t, 2, stats.MaxPackedAlts)
	// Priority 0 (B) beats priority 5 (A): the winning child must be B's
	// derivation, not A's.
	require.NotNil(t, d.Left)
	assert.Equal(t, "B", d.Left.Node.Symbol)
}

func TestReduceChildrenFlattensLongProduction(t *testing.T) {
	terms := []*grammar.Terminal{
		grammar.NewWordClass("no", grammar.CatNo, nil, 0),
		grammar.NewWordClass("so", grammar.CatSo, nil, 0),
		grammar.NewWordClass("lo", grammar.CatLo, nil, 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"no", "lo", "so"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)

	mk := func(text string, wc string, idx int) token.Token {
		tok := token.New(token.KindWord, text, idx)
		tok.Meanings = []token.Meaning{{Lemma: text, WordClass: wc, Features: ""}}
		return tok
	}
	toks := []token.Token{mk("hús", "no", 0), mk("stórt", "lo", 1), mk("brann", "so", 2)}
	lat := match.Build(g, toks)

	root, err := earley.Parse(g, lat, earley.Config{})
	require.NoError(t, err)

	d, _ := Reduce(root, lat, DefaultScoring)
	children := d.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "no", children[0].Node.Symbol)
	assert.Equal(t, "lo", children[1].Node.Symbol)
	assert.Equal(t, "so", children[2].Node.Symbol)
}
