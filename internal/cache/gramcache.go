package cache

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/perr"
)

// lockPath is the advisory lock guarding concurrent grammar compilation
// (spec.md §6: compiling the grammar from source is expensive enough that
// concurrent processes should not race to do it twice).
var lockPath = filepath.Join(os.TempDir(), "greynir-grammar")

// ErrLockHeld is returned by Acquire when another process holds the lock
// past the retry budget. It is a perr.KindLockHeld error (SPEC_FULL §7's
// Fatal kind), so callers can check with errors.Is(err, perr.KindLockHeld)
// as well as by identity.
var ErrLockHeld = perr.New(perr.KindLockHeld, "grammar compilation lock %q held by another process", lockPath)

// Acquire obtains the advisory grammar-compilation lock, retrying for a
// short budget before giving up. A lock older than staleAfter is treated
// as abandoned (a crashed process never cleaned up) and removed.
func Acquire(staleAfter time.Duration, retryBudget time.Duration) (release func(), err error) {
	deadline := time.Now().Add(retryBudget)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("cache: creating lock file %q: %w", lockPath, err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil {
			if time.Since(info.ModTime()) > staleAfter {
				os.Remove(lockPath)
				continue
			}
		}

		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// GrammarCache persists a compiled *grammar.Grammar as a rezi-encoded
// sidecar file next to its source, so that repeat runs over an unchanged
// grammar source skip recompilation (SPEC_FULL §4.9).
type GrammarCache struct {
	Path string
}

// NewGrammarCache returns a cache rooted at the sidecar file path (e.g.
// the grammar source path with a ".cache" suffix).
func NewGrammarCache(path string) *GrammarCache {
	return &GrammarCache{Path: path}
}

// Load reads and rebuilds the cached grammar, or returns os.ErrNotExist
// (wrapped) if no cache file is present yet.
func (c *GrammarCache) Load() (*grammar.Grammar, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("cache: decoding grammar cache %q: %w", c.Path, err)
	}

	var snap Snapshot
	if _, err := rezi.DecBinary(raw, &snap); err != nil {
		return nil, fmt.Errorf("cache: decoding grammar snapshot: %w", err)
	}
	return snap.Rebuild()
}

// Store snapshots g and writes it to the cache file, replacing anything
// already there.
func (c *GrammarCache) Store(g *grammar.Grammar) error {
	snap := NewSnapshot(g)
	raw := rezi.EncBinary(snap)
	enc := base64.StdEncoding.EncodeToString(raw)
	if err := os.WriteFile(c.Path, []byte(enc), 0o644); err != nil {
		return fmt.Errorf("cache: writing grammar cache %q: %w", c.Path, err)
	}
	return nil
}

// Stale reports whether the cache file is missing or older than srcModTime,
// meaning the grammar source has changed since the cache was written.
func (c *GrammarCache) Stale(srcModTime time.Time) bool {
	info, err := os.Stat(c.Path)
	if err != nil {
		return true
	}
	return info.ModTime().Before(srcModTime)
}
