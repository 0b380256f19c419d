package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadTabular reads the legacy tabular text-file format of spec.md §6
// ("Tabular text files for adjective predicates, static phrases,
// ambiguous phrases, prepositions, verb argument templates. Each row has
// fixed columns; comment lines begin with '#'.") for byte-compatibility
// with existing on-disk phrase-table files, merging rows into cfg's
// typed maps. kind selects which table the file's columns describe.
type TableKind string

const (
	TablePhrase      TableKind = "phrase"       // lemma<TAB>bonus
	TableVerbArg     TableKind = "verb_arg"     // lemma<TAB>argspec<TAB>bonus
	TablePreposition TableKind = "preposition"  // lemma<TAB>case<TAB>bonus
)

// LoadTabular reads path as a kind-tagged tabular config file and merges
// its rows into cfg's Scoring tables. target selects which of the three
// phrase maps a TablePhrase file's rows populate.
func LoadTabular(cfg *Config, path string, kind TableKind, target *map[string]float64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening tabular config file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) == 1 {
			cols = strings.Fields(line)
		}

		switch kind {
		case TablePhrase:
			if len(cols) < 2 {
				return fmt.Errorf("%s:%d: expected 2 columns (lemma, bonus), got %d", path, lineNo, len(cols))
			}
			bonus, err := strconv.ParseFloat(cols[1], 64)
			if err != nil {
				return fmt.Errorf("%s:%d: bad bonus %q: %w", path, lineNo, cols[1], err)
			}
			if *target == nil {
				*target = map[string]float64{}
			}
			(*target)[cols[0]] = bonus

		case TableVerbArg:
			if len(cols) < 3 {
				return fmt.Errorf("%s:%d: expected 3 columns (lemma, argspec, bonus), got %d", path, lineNo, len(cols))
			}
			bonus, err := strconv.ParseFloat(cols[2], 64)
			if err != nil {
				return fmt.Errorf("%s:%d: bad bonus %q: %w", path, lineNo, cols[2], err)
			}
			if cfg.Scoring.VerbArgs[cols[0]] == nil {
				cfg.Scoring.VerbArgs[cols[0]] = map[string]float64{}
			}
			cfg.Scoring.VerbArgs[cols[0]][cols[1]] = bonus

		case TablePreposition:
			if len(cols) < 3 {
				return fmt.Errorf("%s:%d: expected 3 columns (lemma, case, bonus), got %d", path, lineNo, len(cols))
			}
			bonus, err := strconv.ParseFloat(cols[2], 64)
			if err != nil {
				return fmt.Errorf("%s:%d: bad bonus %q: %w", path, lineNo, cols[2], err)
			}
			if cfg.Scoring.Prepositions[cols[0]] == nil {
				cfg.Scoring.Prepositions[cols[0]] = map[string]float64{}
			}
			cfg.Scoring.Prepositions[cols[0]][cols[1]] = bonus

		default:
			return fmt.Errorf("unknown tabular config kind %q", kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading tabular config file %q: %w", path, err)
	}
	return nil
}
