package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fjalar/setningar/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	terms := []*grammar.Terminal{
		grammar.NewLiteral("punct_period", grammar.CatLiteralWord, ".", 0),
	}
	prods := []grammar.Production{
		{Head: "S0", Body: []string{"punct_period"}},
	}
	g, err := grammar.New("S0", prods, terms)
	require.NoError(t, err)
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := tinyGrammar(t)
	snap := NewSnapshot(g)

	data, err := snap.MarshalBinary()
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, decoded.UnmarshalBinary(data))

	rebuilt, err := decoded.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, g.Start, rebuilt.Start)
	assert.True(t, rebuilt.IsTerminal("punct_period"))
}

func TestGrammarCacheStoreAndLoad(t *testing.T) {
	g := tinyGrammar(t)
	path := filepath.Join(t.TempDir(), "grammar.cache")
	c := NewGrammarCache(path)

	require.NoError(t, c.Store(g))

	loaded, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, g.Start, loaded.Start)
	assert.True(t, loaded.IsTerminal("punct_period"))
}

func TestGrammarCacheStaleWithoutFile(t *testing.T) {
	c := NewGrammarCache(filepath.Join(t.TempDir(), "missing.cache"))
	assert.True(t, c.Stale(time.Now()))
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	orig := lockPath
	lockPath = filepath.Join(t.TempDir(), "greynir-grammar-test")
	defer func() { lockPath = orig }()

	release, err := Acquire(time.Minute, time.Second)
	require.NoError(t, err)
	release()

	release2, err := Acquire(time.Minute, time.Second)
	require.NoError(t, err)
	release2()
}

func TestAcquireReportsLockHeldWhenContended(t *testing.T) {
	orig := lockPath
	lockPath = filepath.Join(t.TempDir(), "greynir-grammar-test")
	defer func() { lockPath = orig }()

	release, err := Acquire(time.Minute, time.Second)
	require.NoError(t, err)
	defer release()

	_, err = Acquire(time.Minute, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockHeld)
}
