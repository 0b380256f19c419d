// Package earley implements the Earley chart recognizer enhanced with a
// binarized Shared Packed Parse Forest construction (Scott & Johnstone),
// per spec.md §4.4.
package earley

import (
	"fmt"
	"strings"

	"github.com/fjalar/setningar/internal/match"
)

// NodeKind distinguishes the two SPPF node shapes of spec.md §3: symbol
// nodes (X, i, j) and intermediate nodes (production prefix, span).
type NodeKind int

const (
	NodeSymbol NodeKind = iota
	NodeIntermediate
	NodeEpsilon
)

// PackedChild is one alternative derivation beneath an (intermediate or
// symbol) node: an unordered pair of child nodes, or a single-child
// variant (Right == nil) for unit/epsilon steps.
type PackedChild struct {
	Left, Right *Node

	// prod identifies the production that produced this alternative,
	// set only on symbol-node packed children (intermediate nodes carry
	// their production on the node itself). Nil for epsilon/unit
	// alternatives with no production context.
	prod *prodRef
}

// Priority returns the originating production's tie-breaking priority
// (spec.md §4.5 point 2), or 0 if this alternative carries none.
func (pc PackedChild) Priority() int {
	if pc.prod == nil {
		return 0
	}
	return pc.prod.prod.Priority
}

// Node is one SPPF node. Multiple PackedChild entries on the same node
// represent ambiguity at that span (spec.md §3).
type Node struct {
	Kind NodeKind

	// Symbol is the grammar symbol name, valid when Kind == NodeSymbol.
	Symbol string

	// Prod/Dot identify the production prefix represented by an
	// intermediate node, valid when Kind == NodeIntermediate.
	Prod *prodRef
	Dot  int

	I, J int

	Packed []PackedChild

	// Candidate is set on terminal leaf symbol nodes (I+1 == J, Symbol is
	// a terminal name): the (terminal, meaning) pairing that justified
	// the scan, needed downstream by the reducer and simplifier.
	Candidate *match.Candidate
	// TokenIndex is the lattice position of the scanned token, valid
	// alongside Candidate.
	TokenIndex int
	IsTerminal bool
}

// Span reports the node's [I, J) input span.
func (n *Node) Span() (int, int) {
	return n.I, n.J
}

// Ambiguous reports whether this node has more than one packed child,
// i.e. more than one derivation exists for this span (spec.md GLOSSARY
// "Ambiguity").
func (n *Node) Ambiguous() bool {
	return len(n.Packed) > 1
}

func (n *Node) String() string {
	switch n.Kind {
	case NodeEpsilon:
		return "ε"
	case NodeIntermediate:
		return fmt.Sprintf("(%s,%d)[%d,%d)", n.Prod.prod.String(), n.Dot, n.I, n.J)
	default:
		if n.IsTerminal {
			return fmt.Sprintf("%s[%d,%d)", n.Symbol, n.I, n.J)
		}
		return fmt.Sprintf("%s[%d,%d)", n.Symbol, n.I, n.J)
	}
}

// forest is the per-parse interning table plus the epsilon sentinel node
// (spec.md §4.4 "a sentinel epsilon-SPPF node is used to short-circuit
// MakeNode when a right child is the empty string").
type forest struct {
	symbols       map[symbolKey]*Node
	intermediates map[intermediateKey]*Node
	epsilon       *Node
}

type symbolKey struct {
	symbol string
	i, j   int
}

type intermediateKey struct {
	prod *prodRef
	dot  int
	i, j int
}

func newForest() *forest {
	return &forest{
		symbols:       make(map[symbolKey]*Node),
		intermediates: make(map[intermediateKey]*Node),
		epsilon:       &Node{Kind: NodeEpsilon},
	}
}

func (f *forest) getSymbolNode(symbol string, i, j int) *Node {
	k := symbolKey{symbol, i, j}
	if n, ok := f.symbols[k]; ok {
		return n
	}
	n := &Node{Kind: NodeSymbol, Symbol: symbol, I: i, J: j}
	f.symbols[k] = n
	return n
}

// getTerminalLeaf returns (interning) the symbol node for a scanned
// terminal at span [k, k+1), annotated with the (terminal, meaning) pair
// that justified the scan.
func (f *forest) getTerminalLeaf(cand match.Candidate, k int) *Node {
	symbol := cand.Terminal.Name
	n := f.getSymbolNode(symbol, k, k+1)
	if !n.IsTerminal {
		n.IsTerminal = true
		n.Candidate = &cand
		n.TokenIndex = k
	}
	return n
}

func (f *forest) getIntermediateNode(p *prodRef, dot, i, j int) *Node {
	k := intermediateKey{p, dot, i, j}
	if n, ok := f.intermediates[k]; ok {
		return n
	}
	n := &Node{Kind: NodeIntermediate, Prod: p, Dot: dot, I: i, J: j}
	f.intermediates[k] = n
	return n
}

// addPacked appends (left, right) as a packed alternative of node, unless
// that exact pair is already present (dedup by node identity: the forest
// interns every child by its (symbol/production, span) key, so identical
// derivations always produce identical pointers).
func (n *Node) addPacked(left, right *Node, prod *prodRef) {
	for _, pc := range n.Packed {
		if pc.Left == left && pc.Right == right {
			return
		}
	}
	n.Packed = append(n.Packed, PackedChild{Left: left, Right: right, prod: prod})
}

// makeNode implements the MakeNode operator of spec.md §4.4: given the
// forest node w for everything matched before this step (nil if this is
// the first symbol of the production) and v for the symbol just matched
// (terminal scan or completed nonterminal), produce or reuse the
// appropriate SPPF node for the dotted item (p, dot) over span [i, j).
func (f *forest) makeNode(p *prodRef, dot, i, j int, w, v *Node) *Node {
	bodyLen := len(p.prod.Body)

	if w == nil {
		if dot == bodyLen {
			n := f.getSymbolNode(p.prod.Head, i, j)
			n.addPacked(v, nil, p)
			return n
		}
		// Not yet complete: no wrapper needed, v itself represents the
		// partial derivation so far.
		return v
	}

	if dot == bodyLen {
		n := f.getSymbolNode(p.prod.Head, i, j)
		n.addPacked(w, v, p)
		return n
	}
	n := f.getIntermediateNode(p, dot, i, j)
	n.addPacked(w, v, nil)
	return n
}

// makeEpsilonCompletion builds the symbol node for an empty-body
// production completing instantly at position k, using the shared
// epsilon sentinel as its single packed child.
func (f *forest) makeEpsilonCompletion(head string, k int) *Node {
	n := f.getSymbolNode(head, k, k)
	n.addPacked(f.epsilon, nil, nil)
	return n
}

// IndentedString renders a debug view of the forest rooted at n, one
// packed alternative per line, in the indented-tree idiom used elsewhere
// in this module (see ictiobus/types/tree.go's ParseTree.String()).
func (n *Node) IndentedString() string {
	var sb strings.Builder
	n.writeIndented(&sb, "", map[*Node]bool{})
	return sb.String()
}

func (n *Node) writeIndented(sb *strings.Builder, prefix string, seen map[*Node]bool) {
	sb.WriteString(prefix)
	sb.WriteString(n.String())
	if n.Ambiguous() {
		sb.WriteString(" (ambiguous)")
	}
	sb.WriteByte('\n')
	if seen[n] {
		return
	}
	seen[n] = true
	for _, pc := range n.Packed {
		if pc.Left != nil {
			pc.Left.writeIndented(sb, prefix+"  ", seen)
		}
		if pc.Right != nil {
			pc.Right.writeIndented(sb, prefix+"  ", seen)
		}
	}
}
