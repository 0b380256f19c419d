package lexicon

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/fjalar/setningar/internal/perr"
	"github.com/fjalar/setningar/internal/token"
)

// Builder assembles an in-memory set of (form -> meanings) pairs into the
// packed binary format described by spec.md §4.1/§6. It stands in for the
// external lexicon packer named out of scope in spec.md §1: this module
// only needs *something* that produces byte-compatible buffers for tests
// and for bootstrapping small lexicons, not the production BÍN packer.
type Builder struct {
	alpha   Alphabet
	entries map[string][]token.Meaning
}

// NewBuilder creates a Builder using the given Alphabet (DefaultAlphabet
// if a zero value is passed).
func NewBuilder(alpha Alphabet) *Builder {
	if alpha.Len() == 0 {
		alpha = DefaultAlphabet
	}
	return &Builder{alpha: alpha, entries: make(map[string][]token.Meaning)}
}

// Add registers one or more meanings for a word form. Calling Add again
// for the same form appends further meanings.
func (b *Builder) Add(form string, meanings ...token.Meaning) {
	b.entries[form] = append(b.entries[form], meanings...)
}

type trieKey struct {
	bytes []byte
	group uint32 // local offset into the mappings blob
}

// Build serializes the registered entries into a lexicon binary buffer.
func (b *Builder) Build() ([]byte, error) {
	enc := newLatin1Encoder()

	// stems table: dedup lemma strings, preserving first-seen order.
	stemIndex := make(map[string]uint32)
	var stems []string
	stemOf := func(lemma string) uint32 {
		if idx, ok := stemIndex[lemma]; ok {
			return idx
		}
		idx := uint32(len(stems))
		stemIndex[lemma] = idx
		stems = append(stems, lemma)
		return idx
	}

	// meanings table: dedup (stem, wordClass, features) tuples.
	type meaningKey struct {
		stem      uint32
		wordClass string
		features  string
	}
	meaningIndex := make(map[meaningKey]uint32)
	var meaningKeys []meaningKey
	meaningOf := func(m token.Meaning) uint32 {
		k := meaningKey{stem: stemOf(m.Lemma), wordClass: m.WordClass, features: m.Features}
		if idx, ok := meaningIndex[k]; ok {
			return idx
		}
		idx := uint32(len(meaningKeys))
		meaningIndex[k] = idx
		meaningKeys = append(meaningKeys, k)
		return idx
	}

	forms := make([]string, 0, len(b.entries))
	for f := range b.entries {
		forms = append(forms, f)
	}
	sort.Strings(forms)

	var mappingsBuf bytes.Buffer
	var keys []trieKey
	for _, f := range forms {
		latin1, ok := enc.Encode(f)
		if !ok {
			// forms outside the alphabet's representable range are simply
			// not indexed; lookups for them will always miss, matching
			// spec.md §4.1's "not found" failure semantics.
			continue
		}
		meaningIdxs := make([]uint32, 0, len(b.entries[f]))
		for _, m := range b.entries[f] {
			meaningIdxs = append(meaningIdxs, meaningOf(m))
		}
		groupOff := uint32(mappingsBuf.Len())
		var cnt [2]byte
		binary.LittleEndian.PutUint16(cnt[:], uint16(len(meaningIdxs)))
		mappingsBuf.Write(cnt[:])
		for _, idx := range meaningIdxs {
			var b4 [4]byte
			binary.LittleEndian.PutUint32(b4[:], idx)
			mappingsBuf.Write(b4[:])
		}
		keys = append(keys, trieKey{bytes: latin1, group: groupOff})
	}

	if err := assertSentinelSafe(len(keys)); err != nil {
		return nil, err
	}

	var stemsBuf bytes.Buffer
	writeUint32(&stemsBuf, uint32(len(stems)))
	for _, s := range stems {
		writeLenPrefixed(&stemsBuf, []byte(s))
	}

	var meaningsBuf bytes.Buffer
	writeUint32(&meaningsBuf, uint32(len(meaningKeys)))
	for _, mk := range meaningKeys {
		writeUint32(&meaningsBuf, mk.stem)
		writeLenPrefixed(&meaningsBuf, []byte(mk.wordClass))
		writeLenPrefixed(&meaningsBuf, []byte(mk.features))
	}

	var alphaBuf bytes.Buffer
	writeUint32(&alphaBuf, uint32(b.alpha.Len()))
	alphaBuf.Write(b.alpha.Bytes())

	// Lay the tables out in a deterministic order; offsets are absolute
	// within the final buffer.
	var out bytes.Buffer
	out.Write(make([]byte, headerSize)) // placeholder, patched below

	stemsOff := uint32(out.Len())
	out.Write(stemsBuf.Bytes())

	meaningsOff := uint32(out.Len())
	out.Write(meaningsBuf.Bytes())

	mappingsOff := uint32(out.Len())
	out.Write(mappingsBuf.Bytes())

	alphabetOff := uint32(out.Len())
	out.Write(alphaBuf.Bytes())

	t := &trieBuilder{alpha: b.alpha, mappingsBase: mappingsOff, out: &out}

	var formsOff uint32
	if len(keys) == 0 {
		// Emit a trivial empty root so Lookup never indexes past the end
		// of the buffer.
		formsOff = t.writeNode(decodeParams{fragment: nil, singleChar: false, value: valueSentinel, children: nil})
	} else {
		// The recursive builder writes children before parents, so the
		// node it returns for the top-level call (the trie's actual
		// root) is the last one appended; its returned offset is where
		// the header's Forms offset must point.
		formsOff = t.build(keys, 0)
	}

	final := out.Bytes()
	copy(final[:headerSize], writeHeader(offsets{
		Mappings: mappingsOff,
		Forms:    formsOff,
		Stems:    stemsOff,
		Meanings: meaningsOff,
		Alphabet: alphabetOff,
	}))

	return final, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b4 [4]byte
	binary.LittleEndian.PutUint32(b4[:], v)
	buf.Write(b4[:])
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var b2 [2]byte
	binary.LittleEndian.PutUint16(b2[:], uint16(len(b)))
	buf.Write(b2[:])
	buf.Write(b)
}

// trieBuilder recursively serializes a compressed radix trie, children
// first, so that every offset a node references has already been written.
type trieBuilder struct {
	alpha        Alphabet
	mappingsBase uint32
	out          *bytes.Buffer
}

type decodeParams struct {
	fragment   []byte
	singleChar bool
	value      int
	children   []childEntry
}

// build writes the subtree for keys (all sharing the prefix already
// consumed by ancestors) and returns the absolute offset of the node it
// wrote for this call.
func (t *trieBuilder) build(keys []trieKey, depth int) uint32 {
	// Find the longest common prefix among all keys' remaining bytes.
	prefix := commonPrefix(keys, depth)

	var exactValue = valueSentinel
	var rest []trieKey
	for _, k := range keys {
		if len(k.bytes)-depth == len(prefix) {
			exactValue = int(t.mappingsBase) + int(k.group)
		} else {
			rest = append(rest, k)
		}
	}

	groups := groupByNextByte(rest, depth+len(prefix))
	sort.Slice(groups, func(i, j int) bool {
		return t.alpha.Compare(groups[i].firstByte, groups[j].firstByte) < 0
	})

	children := make([]childEntry, 0, len(groups))
	for _, g := range groups {
		childOff := t.build(g.keys, depth+len(prefix))
		children = append(children, childEntry{first: g.firstByte, offset: childOff})
	}

	singleChar := len(prefix) == 1
	return t.writeNode(decodeParams{fragment: prefix, singleChar: singleChar, value: exactValue, children: children})
}

func (t *trieBuilder) writeNode(p decodeParams) uint32 {
	off := uint32(t.out.Len())
	childless := len(p.children) == 0

	var alphaIdx int
	if p.singleChar {
		r, ok := t.alpha.Rank(p.fragment[0])
		if !ok {
			panic(perr.New(perr.KindCorruptLexicon, "byte %q not in alphabet", p.fragment[0]))
		}
		alphaIdx = r
	}

	h := packNodeHeader(p.singleChar, childless, alphaIdx, p.value)
	var h4 [4]byte
	binary.LittleEndian.PutUint32(h4[:], h)
	t.out.Write(h4[:])

	if !childless {
		t.out.WriteByte(byte(len(p.children)))
		for _, c := range p.children {
			t.out.WriteByte(c.first)
			var c4 [4]byte
			binary.LittleEndian.PutUint32(c4[:], c.offset)
			t.out.Write(c4[:])
		}
	}

	if !p.singleChar {
		t.out.WriteByte(byte(len(p.fragment)))
		t.out.Write(p.fragment)
	}

	return off
}

func commonPrefix(keys []trieKey, depth int) []byte {
	if len(keys) == 0 {
		return nil
	}
	shortest := keys[0].bytes[depth:]
	for _, k := range keys[1:] {
		rem := k.bytes[depth:]
		if len(rem) < len(shortest) {
			shortest = rem
		}
	}
	n := len(shortest)
	for _, k := range keys {
		rem := k.bytes[depth:]
		for i := 0; i < n; i++ {
			if rem[i] != shortest[i] {
				n = i
				break
			}
		}
	}
	return append([]byte(nil), shortest[:n]...)
}

type byteGroup struct {
	firstByte byte
	keys      []trieKey
}

func groupByNextByte(keys []trieKey, depth int) []byteGroup {
	idx := make(map[byte]int)
	var groups []byteGroup
	for _, k := range keys {
		b := k.bytes[depth]
		gi, ok := idx[b]
		if !ok {
			gi = len(groups)
			idx[b] = gi
			groups = append(groups, byteGroup{firstByte: b})
		}
		groups[gi].keys = append(groups[gi].keys, k)
	}
	return groups
}
