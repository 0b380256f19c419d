// Package input contains identifiers used in getting sentence-text input
// for cmd/greina from CLI or other sources, mirroring the teacher's
// internal/input split between a raw stdin reader and a GNU-readline-backed
// interactive reader.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectReader implements Reader and reads lines from any generic input
// stream directly. It does not sanitize control/escape sequences, so it is
// meant for piped/non-tty input.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader implements Reader and reads lines from stdin using a Go
// implementation of GNU Readline, giving history and line editing. Meant
// for direct tty use.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl     *readline.Instance
	prompt string
}

// Reader reads one line of sentence input at a time.
type Reader interface {
	ReadLine() (string, error)
	Close() error
}

// NewDirectReader wraps r in a buffered reader. The returned Reader must
// have Close called on it before disposal.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader initializes readline with the given prompt. The
// returned Reader must have Close called on it before disposal to tear
// down readline's terminal state.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl, prompt: prompt}, nil
}

// Close cleans up resources. DirectReader has none yet but implements
// Close so callers can treat both readers uniformly.
func (dr *DirectReader) Close() error { return nil }

// Close tears down readline's terminal state.
func (ir *InteractiveReader) Close() error { return ir.rl.Close() }

// ReadLine reads the next non-blank line. At end of input it returns ""
// and io.EOF.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

// ReadLine reads the next non-blank line via readline. At end of input it
// returns "" and io.EOF.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
	}
	return line, nil
}
