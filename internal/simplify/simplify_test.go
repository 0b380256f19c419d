package simplify

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fjalar/setningar/internal/earley"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/reduce"
	"github.com/fjalar/setningar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildE1 parses "Ása sá sól." against a small hand-written grammar
// grounded directly in spec.md §8 scenario E1, with nonterminal names
// already spelled as their canonical simplified tags (the grammar's
// textual surface syntax is out of this module's scope, per spec.md §1;
// this is the same grammar-construction style internal/reduce's tests
// use).
func buildE1(t *testing.T) (*Tree, match.Lattice) {
	t.Helper()

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

	asa := token.New(token.KindWord, "Ása", 0)
	asa.Meanings = []token.Meaning{{Lemma: "Ása", WordClass: "no", Features: "et nf kvk"}}
	sa := token.New(token.KindWord, "sá", 1)
	sa.Meanings = []token.Meaning{{Lemma: "sjá", WordClass: "so", Features: "et p3"}}
	sol := token.New(token.KindWord, "sól", 2)
	sol.Meanings = []token.Meaning{{Lemma: "sól", WordClass: "no", Features: "et þf kvk"}}
	period := token.New(token.KindPunctuation, ".", 3)

	toks := []token.Token{asa, sa, sol, period}
	lat := match.Build(g, toks)

	root, err := earley.Parse(g, lat, earley.Config{})
	require.NoError(t, err)

	d, _ := reduce.Reduce(root, lat, reduce.DefaultScoring)
	require.NotNil(t, d)

	tree := Simplify(d, lat, DefaultRules())
	require.NotNil(t, tree)
	return tree, lat
}

func TestSimplifyE1Shape(t *testing.T) {
	tree, _ := buildE1(t)

	assert.Equal(t, "S0", tree.Tag)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "S-MAIN", tree.Children[0].Tag)
	assert.True(t, tree.Children[1].IsLeaf())
	assert.Equal(t, ".", tree.Children[1].Leaf.Token.Text())

	ip := tree.Children[0].Children[0]
	assert.Equal(t, "IP", ip.Tag)
	require.Len(t, ip.Children, 2)

	subj := ip.Children[0]
	assert.Equal(t, "NP-SUBJ", subj.Tag)
	require.Len(t, subj.Children, 1)
	assert.Equal(t, "Ása", subj.Children[0].Leaf.Token.Text())

	vp := ip.Children[1]
	assert.Equal(t, "VP", vp.Tag)
	require.Len(t, vp.Children, 2)
	assert.Equal(t, "sá", vp.Children[0].Leaf.Token.Text())
	obj := vp.Children[1]
	assert.Equal(t, "NP-OBJ", obj.Tag)
	assert.Equal(t, "sól", obj.Children[0].Leaf.Token.Text())
}

func TestSimplifyE1Queries(t *testing.T) {
	tree, _ := buildE1(t)

	assert.Equal(t, []string{"Ása", "sól"}, tree.Nouns())
	assert.Equal(t, []string{"sjá"}, tree.Verbs())
	assert.Equal(t, []string{"Ása", "sjá", "sól", "."}, tree.Lemmas())

	subjNodes := tree.Find("NP")
	require.Len(t, subjNodes, 2)
	assert.Equal(t, "NP-SUBJ", subjNodes[0].Tag)
	assert.Equal(t, "NP-OBJ", subjNodes[1].Tag)
}

var indentedTermRE = regexp.MustCompile(`^\(TERM (\S+) `)
var indentedTagRE = regexp.MustCompile(`^\((\S+)\)$`)

// tagsFromFlat extracts the set of tags/descriptors appearing in a Flat()
// rendering: every whitespace-separated word, with a leading "/" (closing
// bracket) stripped.
func tagsFromFlat(flat string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, word := range strings.Fields(flat) {
		out[strings.TrimPrefix(word, "/")] = struct{}{}
	}
	return out
}

// tagsFromIndented extracts the set of tags/descriptors appearing in an
// Indented() rendering, lower-casing leaf descriptors to match how Tags()
// and Flat() both normalize them.
func tagsFromIndented(indented string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, line := range strings.Split(indented, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := indentedTermRE.FindStringSubmatch(line); m != nil {
			out[strings.ToLower(m[1])] = struct{}{}
			continue
		}
		if m := indentedTagRE.FindStringSubmatch(line); m != nil {
			out[m[1]] = struct{}{}
		}
	}
	return out
}

func TestSimplifyFlatAndIndentedShareTags(t *testing.T) {
	tree, _ := buildE1(t)

	flat := tree.Flat()
	indented := tree.Indented()
	assert.Contains(t, flat, "S0 S-MAIN IP NP-SUBJ")
	assert.Contains(t, flat, "/NP-SUBJ")
	assert.NotEmpty(t, indented)

	// spec.md §8 invariant 6: Flat() and Indented() carry exactly the
	// same tag/descriptor set, and both agree with Tags().
	want := tree.Tags()
	assert.Equal(t, want, tagsFromFlat(flat))
	assert.Equal(t, want, tagsFromIndented(indented))
}

func TestDumpTableListsEveryNode(t *testing.T) {
	tree, _ := buildE1(t)

	table := tree.DumpTable()
	assert.Contains(t, table, "NP-SUBJ")
	assert.Contains(t, table, "Ása")
}

type fakeInflector struct {
	table map[string]string
}

func (f fakeInflector) Inflect(lemma, wordClass string, variants []string) (string, bool) {
	form, ok := f.table[lemma]
	return form, ok
}

func TestInflectNounPhrase(t *testing.T) {
	tree, _ := buildE1(t)
	obj := tree.Find("NP-OBJ")[0]

	infl := fakeInflector{table: map[string]string{"sól": "sólin"}}
	nom, _, _, ok := obj.ThreeForms(infl)
	assert.True(t, ok)
	assert.Equal(t, "sólin", nom)
}
