package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Console strings shown to the catalog user.
const (
	PromptPrefix  = "Você: "
	AnswerPrefix  = "Bot: "
	ErrorPrefix   = "Erro: "
	ContextHeader = "🔍 Contexto enviado ao modelo:"
	ContextFooter = "---"
)

const maxLineBytes = 1024 * 1024

// REPL reads questions line by line and prints grounded answers.
// Turns run strictly one after another.
type REPL struct {
	ask          driving.AskService
	k            int
	previewChars int
	echo         bool
}

// NewREPL creates a loop over ask. A non-positive k uses the service default.
func NewREPL(ask driving.AskService, k, previewChars int) *REPL {
	return &REPL{ask: ask, k: k, previewChars: previewChars}
}

// SetEcho makes the loop repeat each question after the prompt.
// Used when input is piped so transcripts stay readable.
func (r *REPL) SetEcho(echo bool) {
	r.echo = echo
}

// Run loops until an exit keyword, end of input or ctx cancellation.
// Per-turn failures are printed and do not stop the loop.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := readLines(ctx, in)

	for {
		fmt.Fprint(out, PromptPrefix)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			return <-readErr
		}
		if r.echo {
			fmt.Fprintln(out, line)
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if domain.IsExitKeyword(question) {
			logger.Debug("Exit keyword %q", question)
			return nil
		}

		r.turn(ctx, question, out)
	}
}

func (r *REPL) turn(ctx context.Context, question string, out io.Writer) {
	result, err := r.ask.Retrieve(ctx, question, r.k)
	if err != nil {
		r.fail(out, err)
		return
	}

	fmt.Fprintf(out, "%s\n%s\n%s\n", ContextHeader, result.Preview(r.previewChars), ContextFooter)

	answer, err := r.ask.Answer(ctx, question, result)
	if err != nil {
		r.fail(out, err)
		return
	}
	fmt.Fprintf(out, "%s%s\n", AnswerPrefix, answer.Text)
}

func (r *REPL) fail(out io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintf(out, "%s%v\n", ErrorPrefix, err)
}

// readLines scans in on a goroutine so a blocked read does not hold up
// cancellation. The error channel yields the scanner error once lines closes.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
