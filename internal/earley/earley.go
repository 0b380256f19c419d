package earley

import (
	"time"

	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/perr"
)

// DefaultMaxTokens is the refusal gate of spec.md §4.4: sentences longer
// than this are rejected before parsing is attempted, since worst-case
// Earley cost is cubic in sentence length.
const DefaultMaxTokens = 90

// Config tunes the parser. The zero value is valid and uses
// DefaultMaxTokens, with no wall-clock cap.
type Config struct {
	MaxTokens int

	// Deadline, if non-zero, is the instant by which chart construction
	// must finish (spec.md §5 "an optional per-sentence wall-clock cap
	// enforced at chart-iteration boundaries"). Checked once per
	// position k in the main chart loop, not inside the inner item
	// loop, so the check cost stays O(n) rather than O(n * items).
	Deadline time.Time
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

// parser holds the mutable state of one Parse call: the Earley chart
// (one itemSet per position), the SPPF interning tables, and a
// lazily-built table giving every production a stable pointer identity
// for the duration of the parse.
type parser struct {
	g    *grammar.Grammar
	lat  match.Lattice
	n    int
	sets []*itemSet
	f    *forest

	prodCache map[string][]*prodRef
	deadline  time.Time
}

// Parse runs the Earley recognizer over lattice lat against grammar g and
// returns the root SPPF node spanning the whole sentence, or a
// *perr.Error of KindParseFailure / KindParseTooLong on failure
// (spec.md §4.4).
func Parse(g *grammar.Grammar, lat match.Lattice, cfg Config) (*Node, error) {
	n := len(lat)
	if n > cfg.maxTokens() {
		return nil, perr.TooLong(n)
	}

	p := &parser{
		g:         g,
		lat:       lat,
		n:         n,
		f:         newForest(),
		prodCache: make(map[string][]*prodRef),
		deadline:  cfg.Deadline,
	}
	p.sets = make([]*itemSet, n+1)
	for k := range p.sets {
		p.sets[k] = newItemSet()
	}

	for _, ref := range p.refsFor(g.Start) {
		p.sets[0].add(p.seedItem(ref, 0))
	}

	for k := 0; k <= n; k++ {
		if !p.deadline.IsZero() && time.Now().After(p.deadline) {
			return nil, perr.TimedOutAt(k)
		}
		set := p.sets[k]
		for i := 0; i < len(set.items); i++ {
			it := set.items[i]
			if it.complete() {
				p.complete(k, it)
				continue
			}
			sym, _ := it.nextSymbol()
			switch {
			case g.IsNonterminal(sym):
				p.predict(k, sym, it)
			case g.IsTerminal(sym):
				if k < n {
					p.scan(k, it, sym)
				}
			}
		}
	}

	if root, ok := p.f.symbols[symbolKey{g.Start, 0, n}]; ok {
		return root, nil
	}
	return nil, perr.ParseFailureAt(p.errorIndex())
}

// refsFor returns the stable prodRef list for nonterminal sym, building
// it on first use. Grammar productions are frozen post-construction, so
// this table is valid for the lifetime of the parse.
func (p *parser) refsFor(sym string) []*prodRef {
	if refs, ok := p.prodCache[sym]; ok {
		return refs
	}
	prods := p.g.Productions(sym)
	refs := make([]*prodRef, len(prods))
	for i, prod := range prods {
		refs[i] = &prodRef{head: sym, idx: i, prod: prod}
	}
	p.prodCache[sym] = refs
	return refs
}

// seedItem builds the dot=0 item for ref at origin k, pre-resolving an
// empty-body production to its instant epsilon completion (spec.md §4.4).
func (p *parser) seedItem(ref *prodRef, k int) item {
	var node *Node
	if len(ref.prod.Body) == 0 {
		node = p.f.makeEpsilonCompletion(ref.head, k)
	}
	return item{ref: ref, dot: 0, origin: k, node: node}
}

// predict adds E_k items for every production of sym (Earley predict),
// then closes the same-position completion fixpoint in both directions:
// any production of sym that is itself already complete at k (can happen
// with nullable/epsilon chains predicted earlier in this same set)
// immediately advances waiting, and any newly-predicted empty production
// does the same on the next loop iteration via its own completeness.
func (p *parser) predict(k int, sym string, waiting item) {
	for _, ref := range p.refsFor(sym) {
		p.sets[k].add(p.seedItem(ref, k))
	}
	for _, cand := range p.sets[k].items {
		if cand.complete() && cand.ref.prod.Head == sym && cand.origin == k {
			p.advance(waiting, cand, k)
		}
	}
}

// complete propagates a completed item (production fully matched over
// [it.origin, k)) to every item in E_origin waiting on that nonterminal.
func (p *parser) complete(k int, it item) {
	head := it.ref.prod.Head
	origin := it.origin
	for _, waiting := range p.sets[origin].items {
		if sym, ok := waiting.nextSymbol(); ok && sym == head {
			p.advance(waiting, it, k)
		}
	}
}

// advance combines waiting (dot before sym) with completed (the just
// matched sym, scan or complete) via MakeNode, and enqueues the resulting
// item into E_k.
func (p *parser) advance(waiting, completed item, k int) {
	newDot := waiting.dot + 1
	node := p.f.makeNode(waiting.ref, newDot, waiting.origin, k, waiting.node, completed.node)
	p.sets[k].add(item{ref: waiting.ref, dot: newDot, origin: waiting.origin, node: node})
}

// scan matches terminal sym against every candidate the lattice offers at
// position k, advancing it into E_k+1 for each one that matches.
func (p *parser) scan(k int, it item, sym string) {
	for _, cand := range p.lat[k].Candidates {
		if cand.Terminal.Name != sym {
			continue
		}
		leaf := p.f.getTerminalLeaf(cand, k)
		node := p.f.makeNode(it.ref, it.dot+1, it.origin, k+1, it.node, leaf)
		p.sets[k+1].add(item{ref: it.ref, dot: it.dot + 1, origin: it.origin, node: node})
	}
}

// errorIndex finds the largest position before the end of the sentence
// whose Earley set was reached at all, per spec.md §4.4: "the error index
// is the largest k < n with non-empty E_k".
func (p *parser) errorIndex() int {
	for k := p.n; k >= 0; k-- {
		if len(p.sets[k].items) > 0 && k < p.n {
			return k
		}
	}
	return 0
}
