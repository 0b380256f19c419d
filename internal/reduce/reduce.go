package reduce

import (
	"strings"
	"unicode"

	"github.com/fjalar/setningar/internal/earley"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/match"
	"github.com/fjalar/setningar/internal/token"
)

// Derivation is one node of the reduced (ambiguity-free) derivation tree:
// a single SPPF node together with the winning packed alternative's
// children, already collapsed.
type Derivation struct {
	Node  *earley.Node
	Score float64
	Left  *Derivation
	Right *Derivation
}

// Children unpacks the left-associated binarization chain of d back into
// the production's original, in-order list of child derivations: an
// intermediate-node Left is flattened recursively, a plain symbol/leaf
// Left is a single child. Used by the simplifier to reconstruct a
// production's full right-hand side (spec.md §4.6).
func (d *Derivation) Children() []*Derivation {
	if d == nil {
		return nil
	}
	if d.Left != nil && d.Left.Node.Kind == earley.NodeIntermediate {
		return append(d.Left.Children(), d.Right)
	}
	var out []*Derivation
	if d.Left != nil {
		out = append(out, d.Left)
	}
	if d.Right != nil {
		out = append(out, d.Right)
	}
	return out
}

// Stats aggregates ambiguity information observed while reducing, per
// spec.md §4.5 "Ambiguity statistics... are aggregated and exposed".
type Stats struct {
	NodesVisited   int
	AmbiguousNodes int
	MaxPackedAlts  int
}

// Reduce walks forest (the SPPF root returned by earley.Parse) and
// selects a single best derivation by scoring every packed alternative
// and keeping the maximum at each node (spec.md §4.5). lat is the
// lattice the forest was parsed against, needed to resolve a terminal
// leaf's TokenIndex back to its source token for the unknown-word and
// named-entity-misclassification penalties (spec.md §4.5 point 4). A nil
// forest yields a null derivation of score 0.
func Reduce(forest *earley.Node, lat match.Lattice, scoring Scoring) (*Derivation, Stats) {
	if forest == nil {
		return nil, Stats{}
	}
	r := &reducer{scoring: scoring, lat: lat, memo: make(map[*earley.Node]*Derivation)}
	d := r.reduce(forest)
	return d, r.stats
}

type reducer struct {
	scoring Scoring
	lat     match.Lattice
	memo    map[*earley.Node]*Derivation
	stats   Stats
}

func (r *reducer) reduce(n *earley.Node) *Derivation {
	if d, ok := r.memo[n]; ok {
		return d
	}
	r.stats.NodesVisited++

	if n.Kind == earley.NodeEpsilon {
		d := &Derivation{Node: n, Score: r.scoring.EpsilonScore}
		r.memo[n] = d
		return d
	}

	if n.IsTerminal {
		d := &Derivation{Node: n, Score: r.terminalScore(n)}
		r.memo[n] = d
		return d
	}

	if len(n.Packed) == 0 {
		// Unit-production symbol node with no recorded alternative
		// (shouldn't occur in a well-formed forest, but treat as a
		// zero-score leaf rather than panicking).
		d := &Derivation{Node: n, Score: r.scoring.EpsilonScore}
		r.memo[n] = d
		return d
	}

	if len(n.Packed) > 1 {
		r.stats.AmbiguousNodes++
	}
	if len(n.Packed) > r.stats.MaxPackedAlts {
		r.stats.MaxPackedAlts = len(n.Packed)
	}

	var best *Derivation
	bestScore := 0.0
	for i, pc := range n.Packed {
		var left, right *Derivation
		score := 0.0
		if pc.Left != nil {
			left = r.reduce(pc.Left)
			score += left.Score
		}
		if pc.Right != nil {
			right = r.reduce(pc.Right)
			score += right.Score
		}
		score += r.scoring.NodeBonus
		score -= float64(pc.Priority()) * r.scoring.ProductionPriorityWeight

		if i == 0 || score > bestScore {
			best = &Derivation{Node: n, Score: score, Left: left, Right: right}
			bestScore = score
		}
	}
	r.memo[n] = best
	return best
}

// terminalScore implements spec.md §4.5 points 1, 3 and 4: a base score
// from the meaning's lexicon rank and variant specificity, the
// lemma-keyed phrase/verb-argument/preposition bonuses, and the
// unknown-word/rare-POS/named-entity-misclassification penalties.
func (r *reducer) terminalScore(n *earley.Node) float64 {
	if n.Candidate == nil {
		return 0
	}
	cand := n.Candidate
	score := -float64(cand.MeaningRank) * r.scoring.MeaningRankWeight
	score += float64(cand.Terminal.Specificity()) * r.scoring.VariantSpecificityWeight

	if rareWordClasses[cand.Meaning.WordClass] {
		score -= r.scoring.RarePOSPenalty
	}

	lemma := cand.Meaning.Lemma
	if lemma != "" {
		switch cand.Meaning.WordClass {
		case "lo":
			score += r.scoring.AdjectivePredicates[lemma]
		case "so":
			if args, ok := r.scoring.VerbArgs[lemma]; ok {
				argspec := strings.Join(cand.Terminal.Variants.Sorted(), " ")
				score += args[argspec]
			}
		case "fs":
			if cases, ok := r.scoring.Prepositions[lemma]; ok {
				for _, v := range cand.Terminal.Variants.Sorted() {
					score += cases[v]
				}
			}
		}
		score += r.scoring.StaticPhrases[lemma]
		score += r.scoring.AmbiguousPhrases[lemma]
	}

	if tok, ok := r.token(n.TokenIndex); ok {
		if tok.Kind() == token.KindWord && len(tok.Meanings) == 0 {
			score -= r.scoring.UnknownWordPenalty
		}
		if isNamedEntityCategory(cand.Terminal.Category) && !looksLikeProperNoun(tok.Text()) {
			score -= r.scoring.NamedEntityMisclassificationPenalty
		}
	}

	return score
}

// token resolves a terminal leaf's lattice position back to its source
// token, if a lattice was given to Reduce.
func (r *reducer) token(idx int) (token.Token, bool) {
	if r.lat == nil || idx < 0 || idx >= len(r.lat) {
		return token.Token{}, false
	}
	return r.lat[idx].Token, true
}

func isNamedEntityCategory(cat grammar.Category) bool {
	switch cat {
	case grammar.CatPerson, grammar.CatEntity, grammar.CatSernafn, grammar.CatFyrirtaeki, grammar.CatGata:
		return true
	default:
		return false
	}
}

// looksLikeProperNoun is a cheap heuristic for spec.md §4.5 point 4's
// "unlikely named-entity classifications": a genuine proper noun starts
// with an upper-case letter.
func looksLikeProperNoun(text string) bool {
	for _, r := range text {
		return unicode.IsUpper(r)
	}
	return false
}
