package lexicon

import (
	"golang.org/x/text/encoding/charmap"
)

// latin1Encoder transcodes UTF-8 word forms to the single-byte Latin-1
// alphabet the forms trie is keyed on (spec.md §3 "Latin-1 transcoding").
type latin1Encoder struct{}

func newLatin1Encoder() latin1Encoder {
	return latin1Encoder{}
}

// Encode converts s to its Latin-1 byte representation. ok is false if s
// contains a rune outside Latin-1 (ISO-8859-1); such forms are simply
// unrepresentable in the trie and are treated as unknown, never an error.
func (latin1Encoder) Encode(s string) (b []byte, ok bool) {
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return nil, false
	}
	return []byte(out), true
}
