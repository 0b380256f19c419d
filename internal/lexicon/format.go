package lexicon

import (
	"encoding/binary"
	"fmt"

	"github.com/fjalar/setningar/internal/perr"
)

// signature identifies a compiled lexicon binary. 16 bytes, per spec.md §6.
var signature = [16]byte{'S', 'E', 'T', 'N', 'I', 'N', 'G', 'A', 'R', '-', 'L', 'E', 'X', '1', 0, 0}

const headerSize = 16 + 4*5 // signature + 5 little-endian uint32 offsets

// offsets names the five cross-referenced tables in the on-disk header, in
// their on-disk order.
type offsets struct {
	Mappings uint32
	Forms    uint32
	Stems    uint32
	Meanings uint32
	Alphabet uint32
}

func readHeader(buf []byte) (offsets, error) {
	if len(buf) < headerSize {
		return offsets{}, perr.New(perr.KindCorruptLexicon, "buffer too small for header: %d bytes", len(buf))
	}
	var sig [16]byte
	copy(sig[:], buf[:16])
	if sig != signature {
		return offsets{}, perr.New(perr.KindCorruptLexicon, "bad signature")
	}
	o := offsets{
		Mappings: binary.LittleEndian.Uint32(buf[16:20]),
		Forms:    binary.LittleEndian.Uint32(buf[20:24]),
		Stems:    binary.LittleEndian.Uint32(buf[24:28]),
		Meanings: binary.LittleEndian.Uint32(buf[28:32]),
		Alphabet: binary.LittleEndian.Uint32(buf[32:36]),
	}
	for name, off := range map[string]uint32{
		"mappings": o.Mappings, "forms": o.Forms, "stems": o.Stems,
		"meanings": o.Meanings, "alphabet": o.Alphabet,
	} {
		if int(off) > len(buf) {
			return offsets{}, perr.New(perr.KindCorruptLexicon, "%s offset %d out of bounds (buffer is %d bytes)", name, off, len(buf))
		}
	}
	return o, nil
}

func writeHeader(o offsets) []byte {
	buf := make([]byte, headerSize)
	copy(buf[:16], signature[:])
	binary.LittleEndian.PutUint32(buf[16:20], o.Mappings)
	binary.LittleEndian.PutUint32(buf[20:24], o.Forms)
	binary.LittleEndian.PutUint32(buf[24:28], o.Stems)
	binary.LittleEndian.PutUint32(buf[28:32], o.Meanings)
	binary.LittleEndian.PutUint32(buf[32:36], o.Alphabet)
	return buf
}

// valueSentinel is the all-ones 23-bit pattern meaning "interim node, no
// value". See spec.md §4.1/§9: the sentinel must never collide with a
// legal mappings-table offset. assertSentinelSafe checks the mappings
// entry count when Builder.Build packs a lexicon; LoadBytes does not run
// the check on a lexicon it loads.
const valueSentinel = (1 << 23) - 1

const maxMappingsEntries = valueSentinel

func assertSentinelSafe(numMappingEntries int) error {
	if numMappingEntries >= maxMappingsEntries {
		return perr.New(perr.KindCorruptLexicon,
			"mappings table has %d entries, which reaches the 23-bit value sentinel (%d)",
			numMappingEntries, maxMappingsEntries)
	}
	return nil
}

// nodeHeader bit layout, per spec.md §6:
//
//	bit 31       single-character flag
//	bit 30       childless flag
//	bits 23-29   alphabet index (7 bits), meaningful only if single-char
//	bits 0-22    value, or valueSentinel if this is an interim node
const (
	flagSingleChar = 1 << 31
	flagChildless  = 1 << 30
	alphaIndexMask = 0x7F
	alphaIndexShift = 23
	valueMask      = (1 << 23) - 1
)

func packNodeHeader(singleChar, childless bool, alphaIndex int, value int) uint32 {
	var h uint32
	if singleChar {
		h |= flagSingleChar
		h |= uint32(alphaIndex&alphaIndexMask) << alphaIndexShift
	}
	if childless {
		h |= flagChildless
	}
	h |= uint32(value) & valueMask
	return h
}

func unpackNodeHeader(h uint32) (singleChar, childless bool, alphaIndex int, value int) {
	singleChar = h&flagSingleChar != 0
	childless = h&flagChildless != 0
	alphaIndex = int((h >> alphaIndexShift) & alphaIndexMask)
	value = int(h & valueMask)
	return
}

func (o offsets) String() string {
	return fmt.Sprintf("mappings=%d forms=%d stems=%d meanings=%d alphabet=%d",
		o.Mappings, o.Forms, o.Stems, o.Meanings, o.Alphabet)
}
