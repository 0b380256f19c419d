// Package config loads the process-wide scoring and limits configuration
// (SPEC_FULL §4.8) from a TOML manifest, mirroring the teacher's
// internal/tqw TOML-decoding idiom: an unexported wire struct tagged for
// toml.Unmarshal, converted into the typed value the rest of the module
// consumes (internal/reduce.Scoring, internal/earley.Config, plus the
// lemma-keyed phrase/verb/preposition tables spec.md §4.5 names).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fjalar/setningar/internal/reduce"
)

// Limits holds the parser's resource bounds (spec.md §4.4, §7).
type Limits struct {
	MaxTokens             int
	SentenceTimeoutMS     int
	ForeignSentenceRatio  float64
	ParseForeignSentences bool
}

// DefaultLimits mirrors spec.md's documented defaults.
var DefaultLimits = Limits{
	MaxTokens:             90,
	SentenceTimeoutMS:     0,
	ForeignSentenceRatio:  0.5,
	ParseForeignSentences: false,
}

// Scoring is the full, explicit scoring configuration (spec.md §4.5, §9
// "no global state") consumed directly by internal/reduce.Reduce: the
// scalar weights plus the lemma-keyed tables its terminal scoring
// consults all live on the one value, so nothing decoded from TOML is
// ever dropped before reaching the reducer.
type Scoring = reduce.Scoring

// Config is the top-level decoded configuration value.
type Config struct {
	Limits  Limits
	Scoring Scoring
}

// wire mirrors the TOML manifest's on-disk shape (SPEC_FULL §4.8).
type wire struct {
	Limits struct {
		MaxTokens             int     `toml:"max_tokens"`
		SentenceTimeoutMS     int     `toml:"sentence_timeout_ms"`
		ForeignSentenceRatio  float64 `toml:"foreign_sentence_ratio"`
		ParseForeignSentences bool    `toml:"parse_foreign_sentences"`
	} `toml:"limits"`

	Scoring struct {
		MeaningRankWeight                   float64 `toml:"meaning_rank_weight"`
		VariantSpecificityWeight            float64 `toml:"variant_specificity_weight"`
		ProductionPriorityWeight            float64 `toml:"production_priority_weight"`
		NodeBonus                           float64 `toml:"node_bonus"`
		EpsilonScore                        float64 `toml:"epsilon_score"`
		UnknownWordPenalty                  float64 `toml:"unknown_word_penalty"`
		RarePOSPenalty                      float64 `toml:"rare_pos_penalty"`
		NamedEntityMisclassificationPenalty float64 `toml:"named_entity_penalty"`

		AdjectivePredicates []wirePhrase      `toml:"adjective_predicates"`
		StaticPhrases       []wirePhrase      `toml:"static_phrases"`
		AmbiguousPhrases    []wirePhrase      `toml:"ambiguous_phrases"`
		VerbArgs            []wireVerbArg     `toml:"verb_args"`
		Prepositions        []wirePreposition `toml:"prepositions"`
	} `toml:"scoring"`
}

type wirePhrase struct {
	Lemma string  `toml:"lemma"`
	Bonus float64 `toml:"bonus"`
}

type wireVerbArg struct {
	Lemma   string  `toml:"lemma"`
	ArgSpec string  `toml:"argspec"`
	Bonus   float64 `toml:"bonus"`
}

type wirePreposition struct {
	Lemma string  `toml:"lemma"`
	Case  string  `toml:"case"`
	Bonus float64 `toml:"bonus"`
}

// Default is a reasonable starting configuration: spec.md's documented
// limit defaults plus internal/reduce.DefaultScoring, no phrase tables.
func Default() Config {
	scoring := reduce.DefaultScoring
	scoring.AdjectivePredicates = map[string]float64{}
	scoring.StaticPhrases = map[string]float64{}
	scoring.AmbiguousPhrases = map[string]float64{}
	scoring.VerbArgs = map[string]map[string]float64{}
	scoring.Prepositions = map[string]map[string]float64{}
	return Config{
		Limits:  DefaultLimits,
		Scoring: scoring,
	}
}

// Load reads and decodes a TOML configuration file at path, converting
// its array-of-tables sections into the typed lookup maps the reducer
// consumes, the way the teacher's internal/tqw converts decoded TOML
// array-of-tables into game-ready slices.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
	}
	return Decode(data)
}

// Decode parses TOML bytes directly (used by tests and by callers that
// already have the manifest in memory).
func Decode(data []byte) (Config, error) {
	var w wire
	if err := toml.Unmarshal(data, &w); err != nil {
		return Config{}, fmt.Errorf("decoding config TOML: %w", err)
	}

	cfg := Default()

	if w.Limits.MaxTokens > 0 {
		cfg.Limits.MaxTokens = w.Limits.MaxTokens
	}
	cfg.Limits.SentenceTimeoutMS = w.Limits.SentenceTimeoutMS
	if w.Limits.ForeignSentenceRatio > 0 {
		cfg.Limits.ForeignSentenceRatio = w.Limits.ForeignSentenceRatio
	}
	cfg.Limits.ParseForeignSentences = w.Limits.ParseForeignSentences

	if w.Scoring.MeaningRankWeight != 0 {
		cfg.Scoring.MeaningRankWeight = w.Scoring.MeaningRankWeight
	}
	if w.Scoring.VariantSpecificityWeight != 0 {
		cfg.Scoring.VariantSpecificityWeight = w.Scoring.VariantSpecificityWeight
	}
	if w.Scoring.ProductionPriorityWeight != 0 {
		cfg.Scoring.ProductionPriorityWeight = w.Scoring.ProductionPriorityWeight
	}
	if w.Scoring.NodeBonus != 0 {
		cfg.Scoring.NodeBonus = w.Scoring.NodeBonus
	}
	cfg.Scoring.EpsilonScore = w.Scoring.EpsilonScore
	if w.Scoring.UnknownWordPenalty != 0 {
		cfg.Scoring.UnknownWordPenalty = w.Scoring.UnknownWordPenalty
	}
	if w.Scoring.RarePOSPenalty != 0 {
		cfg.Scoring.RarePOSPenalty = w.Scoring.RarePOSPenalty
	}
	if w.Scoring.NamedEntityMisclassificationPenalty != 0 {
		cfg.Scoring.NamedEntityMisclassificationPenalty = w.Scoring.NamedEntityMisclassificationPenalty
	}

	for _, p := range w.Scoring.AdjectivePredicates {
		cfg.Scoring.AdjectivePredicates[p.Lemma] = p.Bonus
	}
	for _, p := range w.Scoring.StaticPhrases {
		cfg.Scoring.StaticPhrases[p.Lemma] = p.Bonus
	}
	for _, p := range w.Scoring.AmbiguousPhrases {
		cfg.Scoring.AmbiguousPhrases[p.Lemma] = p.Bonus
	}
	for _, v := range w.Scoring.VerbArgs {
		if cfg.Scoring.VerbArgs[v.Lemma] == nil {
			cfg.Scoring.VerbArgs[v.Lemma] = map[string]float64{}
		}
		cfg.Scoring.VerbArgs[v.Lemma][v.ArgSpec] = v.Bonus
	}
	for _, p := range w.Scoring.Prepositions {
		if cfg.Scoring.Prepositions[p.Lemma] == nil {
			cfg.Scoring.Prepositions[p.Lemma] = map[string]float64{}
		}
		cfg.Scoring.Prepositions[p.Lemma][p.Case] = p.Bonus
	}

	return cfg, nil
}
