// Package sentence is the Sentence/Job façade of spec.md §2 item 7,
// expanded in SPEC_FULL §4.7: it owns the shared, immutable
// lexicon/grammar pair and orchestrates each sentence through
// match -> parse -> reduce -> simplify, aggregating per-job statistics.
package sentence

import (
	"time"

	"github.com/fjalar/setningar/internal/config"
	"github.com/fjalar/setningar/internal/earley"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/perr"
	"github.com/fjalar/setningar/internal/reduce"
	"github.com/fjalar/setningar/internal/simplify"
	"github.com/fjalar/setningar/internal/token"
	"github.com/google/uuid"
)

// Sentence is the per-sentence result of the pipeline: either a
// successful parse (Tree/Score/Stats set, Err nil) or a failure (Err
// set, per spec.md §7's "Parse failures... are returned in the sentence
// object, not thrown").
type Sentence struct {
	ID uuid.UUID

	Text   string
	Tokens []token.Token

	Tree  *simplify.Tree
	Score float64
	Stats reduce.Stats

	// Err holds the non-fatal failure for this sentence, if any
	// (KindParseFailure, KindParseTooLong, KindForeignSentence). Nil on
	// success.
	Err *perr.Error

	ParseTime time.Duration
}

// Ok reports whether this sentence parsed successfully.
func (s *Sentence) Ok() bool {
	return s.Err == nil
}

// Parser bundles the shared, read-only resources (spec.md §5) plus the
// explicit scoring/limits configuration, and exposes the per-sentence
// pipeline. A Parser is safe for concurrent use by multiple goroutines
// (spec.md §4.1 "Concurrency", §5 "no lock").
type Parser struct {
	Grammar *grammar.Grammar
	Lexicon *lexicon.Lexicon
	Config  config.Config
	Rules   simplify.Rules
}

// NewParser builds a Parser over the given shared resources.
func NewParser(g *grammar.Grammar, lex *lexicon.Lexicon, cfg config.Config, rules simplify.Rules) *Parser {
	return &Parser{Grammar: g, Lexicon: lex, Config: cfg, Rules: rules}
}

// ParseSentence runs the full pipeline over a single pre-tokenized
// sentence (spec.md's scope boundary: tokenization into typed Tokens is
// an external collaborator; this module accepts []token.Token). Word
// tokens with no meanings already attached are looked up against the
// shared lexicon first, so that lexicon.Lookup is the one and only
// entry point by which a form becomes a set of candidate meanings.
func (p *Parser) ParseSentence(text string, tokens []token.Token) *Sentence {
	start := time.Now()
	id := uuid.New()
	tokens = p.resolveMeanings(tokens)

	s := &Sentence{ID: id, Text: text, Tokens: tokens}

	if !p.Config.Limits.ParseForeignSentences {
		if ratio := foreignRatio(tokens); ratio > p.Config.Limits.ForeignSentenceRatio {
			s.Err = perr.Foreign(ratio)
			s.ParseTime = time.Since(start)
			return s
		}
	}

	lat := match.Build(p.Grammar, tokens)

	earleyCfg := earley.Config{MaxTokens: p.Config.Limits.MaxTokens}
	if ms := p.Config.Limits.SentenceTimeoutMS; ms > 0 {
		earleyCfg.Deadline = start.Add(time.Duration(ms) * time.Millisecond)
	}
	forest, err := earley.Parse(p.Grammar, lat, earleyCfg)
	if err != nil {
		if pe, ok := err.(*perr.Error); ok {
			s.Err = pe
		} else {
			s.Err = perr.New(perr.KindParseFailure, "%s", err.Error())
		}
		s.ParseTime = time.Since(start)
		return s
	}

	deriv, stats := reduce.Reduce(forest, lat, p.Config.Scoring)
	s.Stats = stats
	if deriv != nil {
		s.Score = deriv.Score
	}
	s.Tree = simplify.Simplify(deriv, lat, p.Rules)
	s.ParseTime = time.Since(start)
	return s
}

// resolveMeanings fills in Meanings for every KindWord token that
// doesn't already carry them, via the shared lexicon (spec.md §4.1).
func (p *Parser) resolveMeanings(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	for i, tok := range tokens {
		if tok.IsWord() && len(tok.Meanings) == 0 && p.Lexicon != nil {
			tok.Meanings = p.Lexicon.Lookup(tok.Text())
		}
		out[i] = tok
	}
	return out
}

// foreignRatio computes the fraction of word tokens with no lexicon
// meanings at all, per spec.md §7's ForeignSentence definition.
func foreignRatio(tokens []token.Token) float64 {
	var words, unknown int
	for _, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		words++
		if len(tok.Meanings) == 0 {
			unknown++
		}
	}
	if words == 0 {
		return 0
	}
	return float64(unknown) / float64(words)
}
