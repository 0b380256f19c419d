package simplify

import (
	"strings"

	"github.com/fjalar/setningar/internal/earley"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/reduce"
	"github.com/fjalar/setningar/internal/token"
	"github.com/fjalar/setningar/internal/util"
)

// Leaf is a terminal leaf of the simplified tree: the scanned token, the
// (terminal, meaning) pairing that justified the scan, and the two
// documented leaf annotations (spec.md §4.6).
type Leaf struct {
	Token token.Token

	// Candidate is the winning (terminal, meaning) pair, as scored by
	// internal/reduce.
	Candidate match.Candidate

	// Descriptor is "cat[_var1_var2...]": the terminal's category plus
	// the variants it pins (spec.md §4.6).
	Descriptor string

	// AllVariants additionally carries features derivable from the
	// winning meaning record, beyond what the terminal itself pinned.
	AllVariants util.StringSet
}

// Lemma returns the leaf's lemma, falling back to the surface token text
// for leaves with no underlying meaning record (typed tokens, literal
// punctuation).
func (l *Leaf) Lemma() string {
	if l.Candidate.Meaning.Lemma != "" {
		return l.Candidate.Meaning.Lemma
	}
	return l.Token.Text()
}

// WordClass returns the leaf's word class, or "" for leaves with no
// underlying meaning record.
func (l *Leaf) WordClass() string {
	return l.Candidate.Meaning.WordClass
}

// Tree is one node of the simplified, public-facing constituency tree.
// Exactly one of Leaf (terminal) or Children (internal node) is
// meaningful; a leaf node has no children and a non-nil Leaf.
type Tree struct {
	Tag      string
	Children []*Tree
	Leaf     *Leaf
}

// IsLeaf reports whether t is a terminal leaf.
func (t *Tree) IsLeaf() bool {
	return t.Leaf != nil
}

// Rules controls how grammar-level nonterminal names fold into the
// public tag vocabulary (spec.md §4.6 "Transformations"). The grammar
// itself is out of this module's scope (spec.md §1), so Rules is the
// seam a grammar author plugs their nonterminal naming convention into.
type Rules struct {
	// Rename maps a grammar nonterminal name to its canonical tag,
	// overriding the default identity/collapse behavior below.
	Rename map[string]string

	// Collapse names grammar-internal nonterminals (naming-only
	// wrappers, agreement-variant duplicates, right-recursive list
	// wrappers) that should vanish, splicing their children into the
	// parent (spec.md §4.6 "Collapse grammar-internal nonterminals").
	Collapse util.StringSet
}

// DefaultRules returns an empty Rules value: any grammar nonterminal
// already spelled as one of PublicTags survives unchanged, everything
// else collapses into its parent.
func DefaultRules() Rules {
	return Rules{Rename: map[string]string{}, Collapse: util.NewStringSet()}
}

func (r Rules) canonicalize(name string) (tag string, collapse bool) {
	if renamed, ok := r.Rename[name]; ok {
		return renamed, false
	}
	if r.Collapse.Has(name) {
		return "", true
	}
	if IsPublicTag(name) {
		return name, false
	}
	return "", true
}

// Simplify rewrites a reduced derivation into the simplified tree
// (spec.md §4.6). lat is the lattice the derivation was parsed against,
// used to resolve a terminal leaf node's TokenIndex back to its Token.
// A nil derivation yields a nil tree.
func Simplify(d *reduce.Derivation, lat match.Lattice, rules Rules) *Tree {
	trees := simplifyNode(d, lat, rules)
	if len(trees) == 0 {
		return nil
	}
	return trees[0]
}

// simplifyNode returns the zero-or-more Trees a single derivation node
// contributes to its parent: one for an ordinary node, zero for an
// epsilon, and the spliced-in children of a collapsed wrapper.
func simplifyNode(d *reduce.Derivation, lat match.Lattice, rules Rules) []*Tree {
	if d == nil {
		return nil
	}
	n := d.Node
	if n.Kind == earley.NodeEpsilon {
		return nil
	}
	if n.IsTerminal {
		return []*Tree{leafTree(d, lat)}
	}

	var kids []*Tree
	for _, c := range d.Children() {
		kids = append(kids, simplifyNode(c, lat, rules)...)
	}

	tag, collapse := rules.canonicalize(n.Symbol)
	if collapse {
		return kids
	}
	return []*Tree{{Tag: tag, Children: kids}}
}

func leafTree(d *reduce.Derivation, lat match.Lattice) *Tree {
	n := d.Node
	cand := n.Candidate
	if cand == nil {
		return &Tree{Leaf: &Leaf{Descriptor: n.Symbol, AllVariants: util.NewStringSet()}}
	}

	var tok token.Token
	if n.TokenIndex >= 0 && n.TokenIndex < len(lat) {
		tok = lat[n.TokenIndex].Token
	}

	variants := util.NewStringSet(cand.Terminal.Variants.Sorted()...)
	all := util.NewStringSet(cand.Terminal.Variants.Sorted()...)
	for _, v := range cand.Meaning.Variants() {
		all.Add(v)
	}

	return &Tree{Leaf: &Leaf{
		Token:       tok,
		Candidate:   *cand,
		Descriptor:  buildDescriptor(cand.Terminal.Category, variants.Sorted()),
		AllVariants: all,
	}}
}

func buildDescriptor(cat grammar.Category, variants []string) string {
	parts := append([]string{string(cat)}, variants...)
	return strings.Join(parts, "_")
}
