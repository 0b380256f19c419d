// Package lexicon implements the compressed, memory-mapped trie lookup of
// inflected word forms described in spec.md §4.1: a single immutable byte
// buffer with a fixed header and four cross-referenced tables (forms
// trie, mappings, stems, meanings).
package lexicon

import (
	"os"
	"sync"
	"syscall"

	"github.com/fjalar/setningar/internal/perr"
	"github.com/fjalar/setningar/internal/token"
)

// Lexicon is an immutable, concurrency-safe lookup table over a packed
// binary buffer. Many goroutines may call Lookup concurrently (spec.md
// §4.1 "Concurrency"); the buffer itself is never mutated after Load.
type Lexicon struct {
	buf     []byte
	off     offsets
	alpha   Alphabet
	enc     latin1Encoder
	mmapped bool

	closeOnce sync.Once
}

// LoadBytes wraps an already-in-memory buffer produced by Builder.Build
// (or read wholesale from disk) as a Lexicon. Any bounds violation or
// malformed header is reported as a fatal CorruptLexicon error, per
// spec.md §4.1's "Failure semantics".
func LoadBytes(buf []byte) (*Lexicon, error) {
	off, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	if int(off.Alphabet)+4 > len(buf) {
		return nil, perr.New(perr.KindCorruptLexicon, "alphabet offset out of bounds")
	}
	alphaLen := le32(buf[off.Alphabet : off.Alphabet+4])
	alphaStart := int(off.Alphabet) + 4
	if alphaStart+int(alphaLen) > len(buf) {
		return nil, perr.New(perr.KindCorruptLexicon, "alphabet table out of bounds")
	}
	alpha, err := NewAlphabet(buf[alphaStart : alphaStart+int(alphaLen)])
	if err != nil {
		return nil, err
	}

	return &Lexicon{buf: buf, off: off, alpha: alpha, enc: newLatin1Encoder()}, nil
}

// Load memory-maps the lexicon binary at path and wraps it as a Lexicon.
// The mapping is read-only and is released by Cleanup.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrap(perr.KindCorruptLexicon, err, "opening lexicon file %q", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, perr.Wrap(perr.KindCorruptLexicon, err, "statting lexicon file %q", path)
	}
	if st.Size() == 0 {
		return nil, perr.New(perr.KindCorruptLexicon, "lexicon file %q is empty", path)
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(st.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, perr.Wrap(perr.KindCorruptLexicon, err, "mmapping lexicon file %q", path)
	}

	lx, err := LoadBytes(data)
	if err != nil {
		_ = syscall.Munmap(data)
		return nil, err
	}
	lx.mmapped = true
	return lx, nil
}

// Cleanup releases the lexicon's resources (the mmap'd region, if any).
// The spec forbids implicit re-initialization (spec.md §9 Design Notes);
// callers must invoke this explicitly and not use the Lexicon afterward.
func (lx *Lexicon) Cleanup() error {
	var err error
	lx.closeOnce.Do(func() {
		if lx.mmapped {
			err = syscall.Munmap(lx.buf)
		}
	})
	return err
}

// Lookup returns the meaning records for an inflected word form, or an
// empty slice if the form is unknown. Pure function of the shared buffer:
// repeated calls with the same form return identical results (spec.md §8
// invariant 4).
func (lx *Lexicon) Lookup(form string) []token.Meaning {
	key, ok := lx.enc.Encode(form)
	if !ok {
		return nil
	}

	node := decodeNode(lx.buf, int(lx.off.Forms), lx.alpha)
	remainder := key
	for {
		outcome, consumed := node.matchFragment(remainder, lx.alpha)
		switch outcome {
		case outcomeFull:
			remainder = remainder[consumed:]
			if len(remainder) == 0 {
				if node.value == valueSentinel {
					return nil
				}
				return lx.meaningsAt(node.value)
			}
			childOff, ok := node.findChild(remainder[0], lx.alpha)
			if !ok {
				return nil
			}
			node = decodeNode(lx.buf, int(childOff), lx.alpha)
		case outcomeLess, outcomeGreater:
			// findChild only matched the key's lead byte, so the key can
			// still differ from this node's fragment further on, or end
			// inside it: either way the form is not in the trie.
			return nil
		}
	}
}

// meaningsAt dereferences a mappings-table offset into the full set of
// Meaning records for that form.
func (lx *Lexicon) meaningsAt(mappingOffset int) []token.Meaning {
	if mappingOffset+2 > len(lx.buf) {
		return nil
	}
	count := int(le16(lx.buf[mappingOffset : mappingOffset+2]))
	out := make([]token.Meaning, 0, count)
	cursor := mappingOffset + 2
	for i := 0; i < count; i++ {
		if cursor+4 > len(lx.buf) {
			break
		}
		idx := le32(lx.buf[cursor : cursor+4])
		cursor += 4
		out = append(out, lx.meaningAt(int(idx)))
	}
	return out
}

func (lx *Lexicon) meaningAt(idx int) token.Meaning {
	cursor := int(lx.off.Meanings) + 4 // skip count
	for i := 0; i < idx; i++ {
		cursor = skipMeaningEntry(lx.buf, cursor)
	}
	stemIdx := int(le32(lx.buf[cursor : cursor+4]))
	cursor += 4
	wordClass, cursor := readLenPrefixed(lx.buf, cursor)
	features, _ := readLenPrefixed(lx.buf, cursor)
	return token.Meaning{
		Lemma:     lx.stemAt(stemIdx),
		WordClass: string(wordClass),
		Features:  string(features),
	}
}

func (lx *Lexicon) stemAt(idx int) string {
	cursor := int(lx.off.Stems) + 4 // skip count
	for i := 0; i < idx; i++ {
		n := int(le16(lx.buf[cursor : cursor+2]))
		cursor += 2 + n
	}
	s, _ := readLenPrefixed(lx.buf, cursor)
	return string(s)
}

func skipMeaningEntry(buf []byte, cursor int) int {
	cursor += 4 // stem index
	n := int(le16(buf[cursor : cursor+2]))
	cursor += 2 + n // wordClass
	n = int(le16(buf[cursor : cursor+2]))
	cursor += 2 + n // features
	return cursor
}

func readLenPrefixed(buf []byte, cursor int) ([]byte, int) {
	n := int(le16(buf[cursor : cursor+2]))
	cursor += 2
	return buf[cursor : cursor+n], cursor + n
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
