// Package console is the line-oriented operator interface. Each line is parsed
// into a command and run against the engine on the timing loop.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/swimset/internal/app"
	"github.com/bft-labs/swimset/internal/ports"
)

// Prompt is written before each line is read.
const Prompt = "swimset> "

// Executor runs fn against the engine. *app.Runner satisfies it.
type Executor interface {
	Do(ctx context.Context, fn func(*app.Engine) error) error
}

// Console reads operator commands and writes their output.
type Console struct {
	exec   Executor
	store  ports.SnapshotStore
	out    io.Writer
	logger ports.Logger
	quit   bool
}

// New creates a console. store may be nil, in which case save and load are rejected.
func New(exec Executor, store ports.SnapshotStore, out io.Writer, logger ports.Logger) *Console {
	return &Console{exec: exec, store: store, out: out, logger: logger}
}

// Run reads lines from in until quit, EOF or ctx is cancelled.
// Command errors are printed and do not end the loop.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, Prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if err := c.Exec(ctx, line); err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			if c.quit {
				return nil
			}
		}
	}
}

// Exec runs a single command line. Blank lines and # comments are ignored.
func (c *Console) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	root := c.commands()
	root.SetArgs(strings.Fields(line))
	err := root.ExecuteContext(ctx)
	if err != nil {
		c.logger.Debug("command rejected", ports.String("line", line), ports.Err(err))
	}
	return err
}

// Quit reports whether the quit command has run.
func (c *Console) Quit() bool {
	return c.quit
}

// do runs fn on the engine. Output is written only after fn returns so the
// timing loop is not held up by a slow terminal.
func (c *Console) do(ctx context.Context, fn func(e *app.Engine, w *strings.Builder) error) error {
	var b strings.Builder
	err := c.exec.Do(ctx, func(e *app.Engine) error {
		return fn(e, &b)
	})
	if b.Len() > 0 {
		io.WriteString(c.out, b.String())
	}
	return err
}

var errNoStore = errors.New("no snapshot file configured")
