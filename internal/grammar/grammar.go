// Package grammar is the in-memory representation of a context-free
// grammar consumed by the Earley parser: nonterminals, terminals,
// productions and priorities (spec.md §4.2). A Grammar is constructed
// once, frozen, and shared read-only across every parse (spec.md §5).
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjalar/setningar/internal/util"
)

// Production is a single rewrite rule Head -> Body. Body may be empty
// (an epsilon production). Priority breaks ties among alternatives at the
// same nonterminal during reduction (spec.md §4.5): lower wins.
type Production struct {
	Head     string
	Body     []string
	Priority int
}

func (p Production) String() string {
	body := strings.Join(p.Body, " ")
	if body == "" {
		body = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.Head, body)
}

// Equal reports structural equality, ignoring Priority, mirroring
// ictiobus/grammar/item.go's LR0Item.Equal.
func (p Production) Equal(o Production) bool {
	if p.Head != o.Head || len(p.Body) != len(o.Body) {
		return false
	}
	for i := range p.Body {
		if p.Body[i] != o.Body[i] {
			return false
		}
	}
	return true
}

// Grammar is an immutable set of nonterminals, terminals and productions
// rooted at Start.
type Grammar struct {
	Start string

	productions map[string][]Production
	terminals   map[string]*Terminal
	nonterms    util.StringSet
	nullable    util.StringSet // nonterminals that derive ε (§4.4 epsilon precompute)
}

// New builds a frozen Grammar. It computes the nullable-nonterminal set
// once at construction time (spec.md §4.4's "epsilons are pre-computed").
func New(start string, productions []Production, terminals []*Terminal) (*Grammar, error) {
	g := &Grammar{
		Start:       start,
		productions: make(map[string][]Production),
		terminals:   make(map[string]*Terminal),
		nonterms:    util.NewStringSet(),
	}

	for _, t := range terminals {
		if _, dup := g.terminals[t.Name]; dup {
			return nil, fmt.Errorf("grammar: duplicate terminal %q", t.Name)
		}
		g.terminals[t.Name] = t
	}

	for _, p := range productions {
		g.nonterms.Add(p.Head)
		g.productions[p.Head] = append(g.productions[p.Head], p)
	}

	if _, ok := g.productions[start]; !ok {
		return nil, fmt.Errorf("grammar: start symbol %q has no productions", start)
	}

	g.nullable = computeNullable(g.productions, g.nonterms)

	return g, nil
}

// IsNonterminal reports whether sym is a nonterminal of this grammar.
func (g *Grammar) IsNonterminal(sym string) bool {
	return g.nonterms.Has(sym)
}

// Nonterminals returns every nonterminal's name, sorted for deterministic
// iteration (used by internal/cache to snapshot every production when
// persisting a compiled grammar).
func (g *Grammar) Nonterminals() []string {
	return g.nonterms.Sorted()
}

// IsTerminal reports whether sym names a terminal of this grammar.
func (g *Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// Terminal returns the named terminal, or nil if none exists.
func (g *Grammar) Terminal(name string) *Terminal {
	return g.terminals[name]
}

// Terminals returns every terminal in the grammar, sorted by name for
// deterministic iteration.
func (g *Grammar) Terminals() []*Terminal {
	names := make([]string, 0, len(g.terminals))
	for n := range g.terminals {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*Terminal, len(names))
	for i, n := range names {
		out[i] = g.terminals[n]
	}
	return out
}

// Productions returns the productions headed by nonterminal nt, in the
// order they were registered (registration order doubles as the default
// priority order when priorities tie, matching spec.md §4.5's "ties
// broken by sum of subtree scores" after priority).
func (g *Grammar) Productions(nt string) []Production {
	return g.productions[nt]
}

// Nullable reports whether nonterminal nt can derive the empty string.
func (g *Grammar) Nullable(nt string) bool {
	return g.nullable.Has(nt)
}

// computeNullable performs the standard fixed-point closure: a nonterminal
// is nullable if it has an empty production, or a production all of whose
// symbols are nullable nonterminals.
func computeNullable(prods map[string][]Production, nonterms util.StringSet) util.StringSet {
	nullable := util.NewStringSet()
	changed := true
	for changed {
		changed = false
		for nt := range nonterms {
			if nullable.Has(nt) {
				continue
			}
			for _, p := range prods[nt] {
				if allNullable(p.Body, nullable, nonterms) {
					nullable.Add(nt)
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

func allNullable(body []string, nullable, nonterms util.StringSet) bool {
	for _, sym := range body {
		if !nonterms.Has(sym) || !nullable.Has(sym) {
			return false
		}
	}
	return true
}
