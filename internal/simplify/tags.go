// Package simplify rewrites a reduced grammar-level derivation
// (internal/reduce.Derivation) into the externally documented simplified
// tree (spec.md §4.6): a closed vocabulary of nonterminal tags, terminal
// descriptors, and the query/serialization surface built on top of it.
package simplify

import "github.com/fjalar/setningar/internal/util"

// PublicTags is the closed vocabulary of simplified-tree nonterminal
// tags named in spec.md §4.6. A grammar nonterminal whose name is not a
// member of this set (and has no explicit Rename entry) is a
// grammar-internal wrapper and gets collapsed into its parent.
var PublicTags = util.NewStringSet(
	"S0", "S-MAIN", "S-HEADING", "S-PREFIX", "S-QUE",
	"CP-THT", "CP-QUE", "CP-REL",
	"CP-ADV-TEMP", "CP-ADV-PURP", "CP-ADV-ACK", "CP-ADV-CONS",
	"CP-ADV-CAUSE", "CP-ADV-COND", "CP-ADV-CMP", "CP-QUOTE",
	"IP", "IP-INF",
	"NP", "NP-SUBJ", "NP-OBJ", "NP-IOBJ", "NP-PRD", "NP-ADP",
	"NP-POSS", "NP-ADDR", "NP-TITLE", "NP-COMPANY", "NP-MEASURE", "NP-AGE",
	"ADJP",
	"VP", "VP-AUX",
	"PP",
	"ADVP", "ADVP-DIR", "ADVP-DATE-ABS", "ADVP-DATE-REL",
	"ADVP-TIMESTAMP-ABS", "ADVP-TIMESTAMP-REL", "ADVP-TMP-SET",
	"ADVP-DUR-ABS", "ADVP-DUR-REL", "ADVP-DUR-TIME",
	"P", "TO", "C",
)

// IsPublicTag reports whether name is a member of the closed tag
// vocabulary.
func IsPublicTag(name string) bool {
	return PublicTags.Has(name)
}

// baseTags is the set of un-suffixed roots a query's partial-tag match
// (spec.md §4.6 "NP matches NP-SUBJ") is defined over.
var baseTags = util.NewStringSet(
	"S0", "S", "CP", "IP", "NP", "ADJP", "VP", "PP", "ADVP", "P", "TO", "C",
)
