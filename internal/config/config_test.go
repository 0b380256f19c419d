package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[limits]
max_tokens = 60
foreign_sentence_ratio = 0.4

[scoring]
node_bonus = 0.25

[[scoring.static_phrases]]
lemma = "í dag"
bonus = 3.0

[[scoring.verb_args]]
lemma = "gefa"
argspec = "2 þgf þf"
bonus = 2.5

[[scoring.prepositions]]
lemma = "í"
case = "þgf"
bonus = 1.0
`

func TestDecodeTOML(t *testing.T) {
	cfg, err := Decode([]byte(sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Limits.MaxTokens)
	assert.Equal(t, 0.4, cfg.Limits.ForeignSentenceRatio)
	assert.Equal(t, 0.25, cfg.Scoring.NodeBonus)
	assert.Equal(t, 3.0, cfg.Scoring.StaticPhrases["í dag"])
	assert.Equal(t, 2.5, cfg.Scoring.VerbArgs["gefa"]["2 þgf þf"])
	assert.Equal(t, 1.0, cfg.Scoring.Prepositions["í"]["þgf"])
}

func TestDefaultsPreservedWhenUnset(t *testing.T) {
	cfg, err := Decode([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultLimits, cfg.Limits)
}

func TestLoadTabularPhraseTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "static_phrases.tsv")
	content := "# comment\ní dag\t3.0\n\ná morgun\t1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, LoadTabular(&cfg, path, TablePhrase, &cfg.Scoring.StaticPhrases))
	assert.Equal(t, 3.0, cfg.Scoring.StaticPhrases["í dag"])
	assert.Equal(t, 1.5, cfg.Scoring.StaticPhrases["á morgun"])
}
