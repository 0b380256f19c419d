/*
Greinaserver starts a setningar HTTP API server and begins listening for
new connections.

Usage:

	greinaserver [flags]
	greinaserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using the REST API documented under SPEC_FULL.md §4.11. By default it
listens on localhost:8080; this can be changed with the --listen/-l flag
(or the environment variable below).

If a JWT token secret is not given, one is automatically generated and
seeded from crypto/rand, meaning all tokens become invalid as soon as the
server shuts down. This is fine for testing but must be given explicitly
in production.

The flags are:

	-v, --version
		Give the current version of greinaserver and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to the value of environment variable
		SETNINGAR_LISTEN_ADDRESS, and if that is not given, localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWTs. Defaults to the value of
		environment variable SETNINGAR_TOKEN_SECRET. If empty, a random
		secret is generated.

	--store FILE
		Persist jobs to the SQLite file at FILE. If not given, jobs are
		parsed but not persisted (GET /api/v1/jobs/{id} always 404s).

	--lexicon FILE
	--grammar-cache FILE
		Same meaning as in cmd/greina; if neither is given, the built-in
		demo grammar is used.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjalar/setningar/internal/apiserver"
	"github.com/fjalar/setningar/internal/cache"
	"github.com/fjalar/setningar/internal/config"
	"github.com/fjalar/setningar/internal/demogrammar"
	"github.com/fjalar/setningar/internal/grammar"
	"github.com/fjalar/setningar/internal/lexicon"
	"github.com/fjalar/setningar/internal/sentence"
	"github.com/fjalar/setningar/internal/simplify"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "SETNINGAR_LISTEN_ADDRESS"
	EnvSecret = "SETNINGAR_TOKEN_SECRET"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of greinaserver and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagStore    = pflag.String("store", "", "Persist jobs to the SQLite file at FILE.")
	flagLexicon  = pflag.String("lexicon", "", "Load the compressed lexicon from FILE.")
	flagGrammar  = pflag.String("grammar-cache", "", "Load a compiled grammar from FILE.")
)

const version = "0.1.0"

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("greinaserver %s\n", version)
		return
	}

	addr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		addr = *flagListen
	}
	if addr == "" {
		addr = "localhost:8080"
	}

	secret := []byte(os.Getenv(EnvSecret))
	if pflag.Lookup("secret").Changed {
		secret = []byte(*flagSecret)
	}
	if len(secret) == 0 {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	api, closeResources, err := buildAPI(secret)
	if err != nil {
		log.Fatalf("FATAL could not initialize API: %s", err.Error())
	}
	defer closeResources()

	srv := apiserver.New(api, addr)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.ServeForever(); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func buildAPI(secret []byte) (apiserver.API, func(), error) {
	g, lex, err := loadResources()
	if err != nil {
		return apiserver.API{}, nil, err
	}
	parser := sentence.NewParser(g, lex, config.Default(), simplify.DefaultRules())

	var store *cache.Store
	if *flagStore != "" {
		store, err = cache.NewStore(*flagStore)
		if err != nil {
			return apiserver.API{}, nil, fmt.Errorf("opening job store: %w", err)
		}
	}

	closeFn := func() {
		if lex != nil {
			lex.Cleanup()
		}
		if store != nil {
			store.Close()
		}
	}

	api := apiserver.API{
		Parser:           parser,
		Store:            store,
		Secret:           secret,
		UnauthDelay:      time.Second,
		SyncJobThreshold: 50,
	}
	return api, closeFn, nil
}

// loadResources resolves the grammar/lexicon pair the server should use:
// an explicitly-given --grammar-cache/--lexicon pair, or the built-in demo
// resources if neither flag was given.
func loadResources() (*grammar.Grammar, *lexicon.Lexicon, error) {
	if *flagGrammar == "" && *flagLexicon == "" {
		g, lex, _, err := demogrammar.Build()
		return g, lex, err
	}

	var g *grammar.Grammar
	var err error
	if *flagGrammar != "" {
		g, err = cache.NewGrammarCache(*flagGrammar).Load()
	} else {
		g, _, _, err = demogrammar.Build()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading grammar: %w", err)
	}

	var lex *lexicon.Lexicon
	if *flagLexicon != "" {
		lex, err = lexicon.Load(*flagLexicon)
		if err != nil {
			return nil, nil, fmt.Errorf("loading lexicon: %w", err)
		}
	}
	return g, lex, nil
}
