// Package cache implements the two optional, strictly-outside-the-core
// persistence layers of SPEC_FULL §4.9-§4.10: a rezi-encoded grammar
// compilation cache guarded by an advisory lock file (spec.md §6), and a
// SQLite-backed job/result store. Nothing in internal/lexicon, grammar,
// match, earley, reduce, or simplify imports this package: the parser
// remains pure CPU work per spec.md §5.
package cache

import (
	"bytes"
	"encoding/gob"

	"github.com/fjalar/setningar/internal/grammar"
)

// Snapshot is the rezi-encodable, exported-field mirror of a compiled
// *grammar.Grammar. Grammar itself keeps its tables unexported (spec.md
// §4.2 "frozen" after construction); Snapshot exists purely so the
// on-disk cache has something to (de)serialize, rebuilt back into a real
// Grammar via grammar.New on load.
type Snapshot struct {
	Start       string
	Productions []grammar.Production
	Terminals   []*grammar.Terminal
}

// NewSnapshot captures every production and terminal of g.
func NewSnapshot(g *grammar.Grammar) Snapshot {
	s := Snapshot{Start: g.Start, Terminals: g.Terminals()}
	for _, nt := range g.Nonterminals() {
		s.Productions = append(s.Productions, g.Productions(nt)...)
	}
	return s
}

// Rebuild reconstructs a frozen *grammar.Grammar from the snapshot.
func (s Snapshot) Rebuild() (*grammar.Grammar, error) {
	return grammar.New(s.Start, s.Productions, s.Terminals)
}

// MarshalBinary implements encoding.BinaryMarshaler, the interface
// github.com/dekarrin/rezi's EncBinary consumes (mirrors the teacher's
// `rezi.EncBinary(s.State)` in server/dao/sqlite/sessions.go).
func (s Snapshot) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the interface
// rezi.DecBinary populates (mirrors the teacher's
// `rezi.DecBinary(stateData, g)`).
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(s)
}
