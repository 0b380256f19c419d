package main

import (
	"strings"
	"unicode"

	"github.com/fjalar/setningar/internal/token"
)

// splitWords does a minimal whitespace/punctuation split of a line into
// tokens. Real tokenization (numbers, dates, named entities, abbreviation
// handling) is an external collaborator per spec.md §1; this is enough to
// drive the pipeline from raw CLI input.
func splitWords(line string) []token.Token {
	var toks []token.Token
	var cur strings.Builder
	idx := 0

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		toks = append(toks, token.New(token.KindWord, cur.String(), idx))
		idx++
		cur.Reset()
	}

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r):
			flush()
			toks = append(toks, token.New(token.KindPunctuation, string(r), idx))
			idx++
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
