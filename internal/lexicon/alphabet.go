package lexicon

import "github.com/fjalar/setningar/internal/perr"

// Alphabet is the fixed, documented byte ordering used to sort trie
// children and compare fragments. It is itself part of the on-disk
// lexicon: a 32-bit length followed by the byte-ordered alphabet bytes
// (spec.md §6).
type Alphabet struct {
	bytes []byte
	rank  [256]int16 // rank[b] = position of b in bytes, or -1
}

// DefaultAlphabet is the Latin-1 byte range used by Icelandic word forms:
// ASCII letters/digits/punctuation plus the Icelandic-specific Latin-1
// letters, in a fixed collation order. It is supplied as the default when
// building a lexicon without an explicit alphabet table.
var DefaultAlphabet = func() Alphabet {
	b, _ := newLatin1Encoder().Encode(
		"abcdefghijklmnopqrstuvwxyzðþæö" +
			"ABCDEFGHIJKLMNOPQRSTUVWXYZÐÞÆÖ" +
			"áéíóúýÁÉÍÓÚÝ" +
			"0123456789" +
			"-'.,:;!?/()[]\"")
	return mustNewAlphabet(b)
}()

func mustNewAlphabet(b []byte) Alphabet {
	a, err := NewAlphabet(b)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAlphabet builds an Alphabet from a byte-ordered alphabet slice. The
// slice must not exceed 128 distinct bytes, since the single-character
// node encoding packs the alphabet index into 7 bits (spec.md §6).
func NewAlphabet(b []byte) (Alphabet, error) {
	if len(b) > 1<<7 {
		return Alphabet{}, perr.New(perr.KindCorruptLexicon, "alphabet has %d symbols, exceeding the 7-bit index limit of 128", len(b))
	}
	a := Alphabet{bytes: append([]byte(nil), b...)}
	for i := range a.rank {
		a.rank[i] = -1
	}
	for i, c := range a.bytes {
		if a.rank[c] != -1 {
			return Alphabet{}, perr.New(perr.KindCorruptLexicon, "alphabet byte %q repeated", c)
		}
		a.rank[c] = int16(i)
	}
	return a, nil
}

// Rank returns the collation index of byte b, or (-1, false) if b is not
// in the alphabet.
func (a Alphabet) Rank(b byte) (int, bool) {
	r := a.rank[b]
	if r < 0 {
		return 0, false
	}
	return int(r), true
}

// Char returns the byte at collation index r.
func (a Alphabet) Char(r int) byte {
	return a.bytes[r]
}

// Len returns the number of symbols in the alphabet.
func (a Alphabet) Len() int {
	return len(a.bytes)
}

// Bytes returns the alphabet's byte-ordered symbol list.
func (a Alphabet) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// Compare returns -1, 0, or 1 according to the alphabet's collation order,
// the same three-way result the trie traversal calls FULL/LESS/GREATER.
// Bytes absent from the alphabet sort after all alphabet bytes, ordered by
// their raw value, so fuzzed/out-of-alphabet input never panics (spec.md
// §8 E6).
func (a Alphabet) Compare(x, y byte) int {
	rx, okx := a.Rank(x)
	ry, oky := a.Rank(y)
	switch {
	case okx && oky:
		switch {
		case rx < ry:
			return -1
		case rx > ry:
			return 1
		default:
			return 0
		}
	case okx && !oky:
		return -1
	case !okx && oky:
		return 1
	default:
		if x < y {
			return -1
		} else if x > y {
			return 1
		}
		return 0
	}
}
