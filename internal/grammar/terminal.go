package grammar

import (
	"strings"

	"github.com/fjalar/setningar/internal/util"
)

// Category is the closed taxonomy of terminal categories named in spec.md
// §4.2. Word-class categories match lexicon meanings; typed-token
// categories match a token's intrinsic Kind; LiteralWord/LiteralLemma
// match surface text or lemma directly and carry no Variants.
type Category string

// Word-class categories.
const (
	CatNo    Category = "no"
	CatSo    Category = "so"
	CatLo    Category = "lo"
	CatFs    Category = "fs"
	CatAo    Category = "ao"
	CatEo    Category = "eo"
	CatFn    Category = "fn"
	CatPfn   Category = "pfn"
	CatAbfn  Category = "abfn"
	CatGr    Category = "gr"
	CatSt    Category = "st"
	CatStt   Category = "stt"
	CatNhm   Category = "nhm"
	CatTo    Category = "to"
	CatTala  Category = "töl"
	CatUh    Category = "uh"
)

// Typed-token categories.
const (
	CatPerson     Category = "person"
	CatEntity     Category = "entity"
	CatSernafn    Category = "sérnafn"
	CatFyrirtaeki Category = "fyrirtæki"
	CatGata       Category = "gata"
	CatTalaTok    Category = "tala"
	CatProsenta   Category = "prósenta"
	CatArtal      Category = "ártal"
	CatRadnr      Category = "raðnr"
	CatSequence   Category = "sequence"
	CatDagsfost   Category = "dagsföst"
	CatDagsafs    Category = "dagsafs"
	CatTimi       Category = "tími"
	CatTimapunktur Category = "tímapunktur"
	CatLen        Category = "lén"
	CatMyllumerki Category = "myllumerki"
	CatTolvupostfang Category = "tölvupóstfang"
	CatGrm        Category = "grm"
)

// Literal-terminal pseudo-categories.
const (
	CatLiteralWord  Category = "\"word\""
	CatLiteralLemma Category = "'lemma'"
)

var wordClassCategories = newCategorySet(
	CatNo, CatSo, CatLo, CatFs, CatAo, CatEo, CatFn, CatPfn, CatAbfn,
	CatGr, CatSt, CatStt, CatNhm, CatTo, CatTala, CatUh,
)

func newCategorySet(cats ...Category) map[Category]struct{} {
	s := make(map[Category]struct{}, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// IsWordClass reports whether c is one of the word-class categories that
// match against lexicon meanings rather than token kind.
func (c Category) IsWordClass() bool {
	_, ok := wordClassCategories[c]
	return ok
}

// Variant is one morphosyntactic feature tag drawn from the closed
// vocabulary in spec.md §4.2: case, number, gender, person, verb form,
// voice, tense, degree, adjective-object-case, strong/weak, or a verb
// argument spec token (numeric argument count or case).
type Variant string

const (
	VarNf  Variant = "nf"
	VarThf Variant = "þf"
	VarThgf Variant = "þgf"
	VarEf  Variant = "ef"

	VarEt Variant = "et"
	VarFt Variant = "ft"

	VarKk  Variant = "kk"
	VarKvk Variant = "kvk"
	VarHk  Variant = "hk"

	VarP1 Variant = "p1"
	VarP2 Variant = "p2"
	VarP3 Variant = "p3"

	VarNh   Variant = "nh"
	VarBh   Variant = "bh"
	VarVh   Variant = "vh"
	VarLh   Variant = "lh"
	VarLhtht Variant = "lhþt"
	VarSagnb Variant = "sagnb"
	VarFh   Variant = "fh"

	VarGm Variant = "gm"
	VarMm Variant = "mm"

	VarNt Variant = "nt"
	VarTht Variant = "þt"

	VarMst Variant = "mst"
	VarEsb Variant = "esb"
	VarEvb Variant = "evb"

	VarSthf  Variant = "sþf"
	VarSthgf Variant = "sþgf"
	VarSef   Variant = "sef"

	VarSb Variant = "sb"
	VarVb Variant = "vb"

	VarGr Variant = "gr" // definite article suffix marker on nouns
)

// Terminal is a typed predicate over tokens, per spec.md §4.2: a category
// plus a required variant set, or a literal spec for bare "word"/'lemma'
// terminals. Matching itself lives in package match; Terminal only holds
// the frozen definition.
type Terminal struct {
	Name     string
	Category Category
	Variants util.StringSet

	// Literal is set only for CatLiteralWord/CatLiteralLemma terminals.
	Literal string

	// Priority breaks ties at the terminal level during scoring
	// (spec.md §4.2's "plus a priority for tie-breaking").
	Priority int
}

// NewWordClass builds a word-class or typed-token terminal.
func NewWordClass(name string, category Category, variants []string, priority int) *Terminal {
	return &Terminal{Name: name, Category: category, Variants: util.NewStringSet(variants...), Priority: priority}
}

// NewLiteral builds a bare "word" or 'lemma' literal terminal.
func NewLiteral(name string, category Category, literal string, priority int) *Terminal {
	return &Terminal{Name: name, Category: category, Literal: literal, Priority: priority}
}

// RequiresVariant reports whether v is among this terminal's required
// variants.
func (t *Terminal) RequiresVariant(v string) bool {
	return t.Variants.Has(v)
}

// Specificity is the number of variants pinned by this terminal, used by
// the reducer to reward more specific matches (spec.md §4.5 "variant
// specificity").
func (t *Terminal) Specificity() int {
	return t.Variants.Len()
}

// ParseName splits a conventional terminal name like "no_et_þf_kvk" into
// its category and variant parts. Literal terminal names are returned
// unparsed (category = the whole name).
func ParseName(name string) (category string, variants []string) {
	if strings.HasPrefix(name, "\"") || strings.HasPrefix(name, "'") {
		return name, nil
	}
	parts := strings.Split(name, "_")
	if len(parts) == 0 {
		return name, nil
	}
	return parts[0], parts[1:]
}
