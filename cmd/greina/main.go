/*
Greina parses Icelandic sentences and prints their constituent tree.

It reads sentence text one line at a time, either from stdin directly or
interactively via GNU readline, and prints each parsed sentence's tree. If
no lexicon or grammar cache is given, a small built-in demo grammar
covering "Ása sá sól." is used.

Usage:

	greina [flags]

The flags are:

	-v, --version
		Give the current version of greina and then exit.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline based routines for reading input, even if launched in a
		tty with stdin and stdout.

	-c, --command TEXT
		Immediately parse the given sentence(s) at start. Can be multiple
		sentences separated by the ";" character.

	-l, --lexicon FILE
		Load the compressed lexicon from FILE instead of the built-in demo
		lexicon.

	-g, --grammar-cache FILE
		Load a compiled grammar from FILE (written by internal/cache.GrammarCache)
		instead of the built-in demo grammar.

	--flat
		Print the flat tree form instead of the indented tree.

	--json
		Print the JSON dump form instead of the indented tree.

	--table
		Print a tabular debug dump of the tree instead of the indented
		tree.

	--case CASE
		Also print the first NP-* phrase found, inflected into CASE (nf,
		þf, þgf, ef). Only available when running off the built-in demo
		grammar (no --lexicon/--grammar-cache given), since a loaded
		lexicon binary carries no reverse index.

Once a session has started, each line of input is parsed and its tree
printed. Type "QUIT" to exit the interpreter.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fjalar/setningar/internal/cache"
	"github.com/fjalar/setningar/internal/config"
	"github.com/fjalar/setningar/internal/demogrammar"
	"github.com/fjalar/setningar/internal/input"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/sentence"
	"github.com/fjalar/setningar/internal/simplify"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the parser.
	ExitInitError
)

const version = "0.1.0"

var (
	returnCode     int     = ExitSuccess
	flagVersion    *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect    *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand   *string = pflag.StringP("command", "c", "", "Immediately parse the given sentence(s) at start")
	lexiconFile    *string = pflag.StringP("lexicon", "l", "", "Load the compressed lexicon from FILE")
	grammarCache   *string = pflag.StringP("grammar-cache", "g", "", "Load a compiled grammar from FILE")
	flagFlat       *bool   = pflag.Bool("flat", false, "Print the flat tree form instead of the indented tree")
	flagJSON       *bool   = pflag.Bool("json", false, "Print the JSON dump form instead of the indented tree")
	flagTable      *bool   = pflag.Bool("table", false, "Print a tabular debug dump of the tree instead of the indented tree")
	flagCase       *string = pflag.String("case", "", "Also print the first NP-* phrase inflected into the given case (nf, þf, þgf, ef)")
)

// inflector is the Inflector to use for --case, set once in main from
// whatever buildParser resolves (nil unless the built-in demo data is in
// use, since a loaded lexicon binary carries no reverse index).
var inflector simplify.Inflector

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("greina %s\n", version)
		return
	}

	p, lex, infl, err := buildParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if lex != nil {
		defer lex.Cleanup()
	}
	inflector = infl

	var startSentences []string
	if *startCommand != "" {
		startSentences = strings.Split(*startCommand, ";")
	}

	runREPL(p, startSentences)
}

// buildParser resolves the grammar/lexicon pair plus (when running off
// the built-in demo data) the noun-phrase Inflector backing --case.
func buildParser() (*sentence.Parser, *lexicon.Lexicon, simplify.Inflector, error) {
	if *lexiconFile == "" && *grammarCache == "" {
		g, lex, rev, err := demogrammar.Build()
		if err != nil {
			return nil, nil, nil, err
		}
		return sentence.NewParser(g, lex, config.Default(), simplify.DefaultRules()), lex, rev, nil
	}

	var lex *lexicon.Lexicon
	var err error
	if *lexiconFile != "" {
		lex, err = lexicon.Load(*lexiconFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading lexicon: %w", err)
		}
	}

	g, err := cache.NewGrammarCache(*grammarCache).Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading grammar cache: %w", err)
	}

	return sentence.NewParser(g, lex, config.Default(), simplify.DefaultRules()), lex, nil, nil
}

func runREPL(p *sentence.Parser, startSentences []string) {
	for _, text := range startSentences {
		text = strings.TrimSpace(text)
		if text != "" {
			printParse(p, text)
		}
	}

	var reader input.Reader
	var err error
	if *forceDirect || !isTTY() {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader("> ")
		if err != nil {
			reader = input.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			}
			return
		}
		if strings.EqualFold(line, "QUIT") {
			return
		}
		printParse(p, line)
	}
}

func printParse(p *sentence.Parser, text string) {
	toks := splitWords(text)
	s := p.ParseSentence(text, toks)

	switch {
	case *flagJSON:
		data, err := json.MarshalIndent(s.Dump(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}
		fmt.Println(string(data))
	case !s.Ok():
		fmt.Printf("PARSE FAILED at token %d: %s\n", s.Err.Index, s.Err.Kind())
	case *flagTable:
		fmt.Println(s.Tree.DumpTable())
	case *flagFlat:
		fmt.Println(s.Tree.Flat())
	default:
		fmt.Println(s.Tree.Indented())
	}

	if *flagCase != "" {
		printInflection(s.Tree)
	}
}

// printInflection prints the first NP-* phrase in tree inflected into
// *flagCase, or a diagnostic if no Inflector or no such phrase is available.
func printInflection(tree *simplify.Tree) {
	if inflector == nil {
		fmt.Println("(no inflector available for --case; only the built-in demo grammar carries one)")
		return
	}
	for _, tag := range simplify.PublicTags.Sorted() {
		if !strings.HasPrefix(tag, "NP") || !simplify.IsNounPhrase(tag) {
			continue
		}
		nodes := tree.Find(tag)
		if len(nodes) == 0 {
			continue
		}
		form, ok := nodes[0].InflectNounPhrase(inflector, *flagCase, false, false)
		fmt.Printf("%s (%s): %s", tag, *flagCase, form)
		if !ok {
			fmt.Print(" (incomplete: some leaf had no matching inflected form)")
		}
		fmt.Println()
		return
	}
	fmt.Println("(no NP-* phrase found to inflect)")
}

func isTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
