// Package token holds the data model produced by the (external) tokenizer
// and consumed by the terminal matcher: Kind, Token and Meaning. Tokens are
// immutable after construction, mirroring the read-only Token contract in
// ictiobus/types/token.go.
package token

import "fmt"

// Kind is the closed set of token kinds the tokenizer may produce.
type Kind int

const (
	KindUnknown Kind = iota
	KindWord
	KindNumber
	KindPercent
	KindDateAbs
	KindDateRel
	KindTime
	KindTimestamp
	KindYear
	KindOrdinal
	KindAmount
	KindCurrency
	KindURL
	KindEmail
	KindDomain
	KindHashtag
	KindPunctuation
	KindPerson
	KindEntity
	KindSequence
)

func (k Kind) String() string {
	names := [...]string{
		"unknown", "word", "number", "percent", "dateabs", "daterel",
		"time", "timestamp", "year", "ordinal", "amount", "currency",
		"url", "email", "domain", "hashtag", "punctuation", "person",
		"entity", "sequence",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Gender is the closed set of grammatical genders.
type Gender string

const (
	GenderNone       Gender = ""
	GenderMasculine  Gender = "kk"
	GenderFeminine   Gender = "kvk"
	GenderNeuter     Gender = "hk"
)

// DateTriple is the (year, month, day) payload of a date token. A zero
// field means "unspecified" (used for relative/partial dates).
type DateTriple struct {
	Year, Month, Day int
}

// Meaning is one interpretation of a word form: its lemma, word class, and
// a feature string encoding gender/case/number/person/tense/mood/voice/
// degree/etc. A single form may carry many Meanings.
type Meaning struct {
	Lemma     string
	WordClass string // no, so, lo, fs, ao, fn, pfn, abfn, gr, st, stt, nhm, to, töl, uh, ...
	Features  string // space or underscore-joined variant tags, e.g. "ft þgf kvk"
}

// HasVariant reports whether the meaning's feature set contains the given
// variant tag.
func (m Meaning) HasVariant(variant string) bool {
	for _, f := range splitFeatures(m.Features) {
		if f == variant {
			return true
		}
	}
	return false
}

// Variants returns the meaning's feature tags as a slice.
func (m Meaning) Variants() []string {
	return splitFeatures(m.Features)
}

func splitFeatures(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' || s[i] == '_' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// Token is an immutable lexeme produced by the tokenizer, annotated with
// kind-specific payload.
type Token struct {
	kind   Kind
	text   string
	index  int
	line   int
	linePos int

	// Meanings holds candidate meanings for KindWord tokens (possibly
	// empty, meaning "unknown word").
	Meanings []Meaning

	// Numeric is set for KindNumber/KindPercent/KindAmount/KindOrdinal.
	Numeric float64

	// Date is set for KindDateAbs/KindDateRel/KindTimestamp/KindYear.
	Date DateTriple

	// PersonGender is set for KindPerson when a gender could be inferred.
	PersonGender Gender

	// EntityClass names a free-form entity category for KindEntity tokens
	// (e.g. "fyrirtæki", "gata").
	EntityClass string

	// Currency holds an ISO-ish currency code for KindAmount/KindCurrency
	// tokens.
	Currency string
}

// New constructs a Token. index is the 0-based position in the sentence.
func New(kind Kind, text string, index int) Token {
	return Token{kind: kind, text: text, index: index}
}

// WithPosition returns a copy of t annotated with 1-indexed line/column
// info, mirroring ictiobus/types/token.go's Line()/LinePos() contract.
func (t Token) WithPosition(line, linePos int) Token {
	t.line = line
	t.linePos = linePos
	return t
}

func (t Token) Kind() Kind     { return t.kind }
func (t Token) Text() string   { return t.text }
func (t Token) Index() int     { return t.index }
func (t Token) Line() int      { return t.line }
func (t Token) LinePos() int   { return t.linePos }

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.kind, t.text)
}

// IsWord reports whether the token is a word-class token eligible for
// lexicon lookup.
func (t Token) IsWord() bool {
	return t.kind == KindWord
}
