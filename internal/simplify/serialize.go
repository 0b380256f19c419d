package simplify

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Indented renders t as the ASCII-art indented view of spec.md §6: one
// node per line, children indented two spaces past their parent. Mirrors
// the indented-tree idiom used elsewhere in this module (see
// ictiobus/types/tree.go's ParseTree.String()).
func (t *Tree) Indented() string {
	var sb strings.Builder
	t.writeIndented(&sb, 0)
	return sb.String()
}

func (t *Tree) writeIndented(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.IsLeaf() {
		fmt.Fprintf(sb, "(TERM %s %q)\n", t.Leaf.Descriptor, t.Leaf.Token.Text())
		return
	}
	fmt.Fprintf(sb, "(%s)\n", t.Tag)
	for _, c := range t.Children {
		c.writeIndented(sb, depth+1)
	}
}

// Flat renders t as the flat textual form of spec.md §6: "TAG ... /TAG"
// bracketing around subtrees, lower-cased terminal descriptors as
// leaves, space separated.
func (t *Tree) Flat() string {
	var sb strings.Builder
	t.writeFlat(&sb)
	return strings.TrimSpace(sb.String())
}

func (t *Tree) writeFlat(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(strings.ToLower(t.Leaf.Descriptor))
		sb.WriteByte(' ')
		return
	}
	sb.WriteString(t.Tag)
	sb.WriteByte(' ')
	for _, c := range t.Children {
		c.writeFlat(sb)
	}
	sb.WriteByte('/')
	sb.WriteString(t.Tag)
	sb.WriteByte(' ')
}

// DumpTable renders a flattened, tabular debug view of t: one row per
// node in pre-order, with depth, tag/descriptor, and lemma columns. Meant
// for troubleshooting a simplified tree from a REPL or log line, not for
// the public flat/indented forms.
func (t *Tree) DumpTable() string {
	data := [][]string{{"depth", "node", "lemma"}}
	t.collectRows(&data, 0)
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (t *Tree) collectRows(data *[][]string, depth int) {
	row := make([]string, 3)
	row[0] = fmt.Sprintf("%d", depth)
	if t.IsLeaf() {
		row[1] = fmt.Sprintf("TERM %s", t.Leaf.Descriptor)
		row[2] = t.Leaf.Lemma()
	} else {
		row[1] = t.Tag
		row[2] = ""
	}
	*data = append(*data, row)
	for _, c := range t.Children {
		c.collectRows(data, depth+1)
	}
}

// Tags returns the set of distinct nonterminal tags and terminal
// descriptors present in t, used to verify spec.md §8 invariant 6 (flat
// and indented views carry the same tag/descriptor set).
func (t *Tree) Tags() map[string]struct{} {
	out := make(map[string]struct{})
	t.Walk(func(n *Tree) {
		if n.IsLeaf() {
			out[strings.ToLower(n.Leaf.Descriptor)] = struct{}{}
		} else {
			out[n.Tag] = struct{}{}
		}
	})
	return out
}
