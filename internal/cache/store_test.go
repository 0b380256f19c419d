package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fjalar/setningar/internal/config"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/sentence"
	"github.com/fjalar/setningar/internal/simplify"
	"github.com/fjalar/setningar/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestParser(t *testing.T) *sentence.Parser {
	t.Helper()

	b := lexicon.NewBuilder(lexicon.Alphabet{})
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

	return sentence.NewParser(g, lex, config.Default(), simplify.DefaultRules())
}

func tokens() []token.Token {
	return []token.Token{
		token.New(token.KindWord, "Ása", 0),
		token.New(token.KindWord, "sá", 1),
		token.New(token.KindWord, "sól", 2),
		token.New(token.KindPunctuation, ".", 3),
	}
}

func TestStoreSaveAndGetJob(t *testing.T) {
	p := buildTestParser(t)
	job := p.RunJob([]sentence.SentenceInput{
		{Text: "Ása sá sól.", Tokens: tokens()},
	})

	st, err := NewStore(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.SaveJob(ctx, job))

	stored, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Stats.SentenceCount, stored.SentenceCount)
	assert.Equal(t, job.Stats.ParsedCount, stored.ParsedCount)
	require.Len(t, stored.Sentences, 1)
	assert.Equal(t, "Ása sá sól.", stored.Sentences[0].Text)
	assert.Contains(t, stored.Sentences[0].FlatTree, "NP-SUBJ")
}

func TestStoreGetJobNotFound(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.GetJob(context.Background(), job(t).ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func job(t *testing.T) *sentence.Job {
	t.Helper()
	p := buildTestParser(t)
	return p.RunJob([]sentence.SentenceInput{{Text: "Ása sá sól.", Tokens: tokens()}})
}
