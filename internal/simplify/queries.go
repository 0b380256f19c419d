package simplify

import (
	"strings"

	"github.com/fjalar/setningar/internal/token"
)

// Walk calls fn for t and every descendant, pre-order.
func (t *Tree) Walk(fn func(*Tree)) {
	if t == nil {
		return
	}
	fn(t)
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// matchesTag implements spec.md §4.6's partial-tag descent: "NP matches
// NP-SUBJ" — an exact tag match, or a match of the tag's base (everything
// before the first '-') against prefix.
func matchesTag(tag, prefix string) bool {
	if tag == prefix {
		return true
	}
	base := tag
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		base = tag[:i]
	}
	return base == prefix
}

// Find returns every internal node (in document order) whose tag
// matches tagPrefix by spec.md §4.6's partial-tag rule.
func (t *Tree) Find(tagPrefix string) []*Tree {
	var out []*Tree
	t.Walk(func(n *Tree) {
		if !n.IsLeaf() && matchesTag(n.Tag, tagPrefix) {
			out = append(out, n)
		}
	})
	return out
}

// Leaves returns every terminal leaf under t, in token order.
func (t *Tree) Leaves() []*Leaf {
	var out []*Leaf
	t.Walk(func(n *Tree) {
		if n.IsLeaf() {
			out = append(out, n.Leaf)
		}
	})
	return out
}

// Lemmas returns the lemma of every leaf under t, in token order.
func (t *Tree) Lemmas() []string {
	var out []string
	for _, l := range t.Leaves() {
		out = append(out, l.Lemma())
	}
	return out
}

func (t *Tree) leavesOfClass(class string) []string {
	var out []string
	for _, l := range t.Leaves() {
		if l.WordClass() == class {
			out = append(out, l.Lemma())
		}
	}
	return out
}

// Nouns returns the lemma of every noun (word class "no") leaf.
func (t *Tree) Nouns() []string { return t.leavesOfClass("no") }

// Verbs returns the lemma of every verb (word class "so") leaf.
func (t *Tree) Verbs() []string { return t.leavesOfClass("so") }

// Persons returns the surface text of every KindPerson leaf.
func (t *Tree) Persons() []string {
	var out []string
	for _, l := range t.Leaves() {
		if l.Token.Kind() == token.KindPerson {
			out = append(out, l.Token.Text())
		}
	}
	return out
}

// Entities returns the surface text of every KindEntity leaf.
func (t *Tree) Entities() []string {
	var out []string
	for _, l := range t.Leaves() {
		if l.Token.Kind() == token.KindEntity {
			out = append(out, l.Token.Text())
		}
	}
	return out
}
