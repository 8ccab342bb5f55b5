package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".goexpand_history"
	replPrompt  = "> "
)

// lineReader abstracts the liner prompt, so that sessions can be driven
// without a terminal.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// repl evaluates each line read against the same VM until end of input.
// Halts are reported to errOut, and do not end the session.
type repl struct {
	vm     *VM
	lines  lineReader
	errOut io.Writer
	dump   bool
}

func (r repl) run(ctx context.Context) error {
	for n := 1; ; n++ {
		line, err := r.lines.Prompt(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.lines.AppendHistory(line)

		name := fmt.Sprintf("<repl:%v>", n)
		if err := r.vm.Eval(ctx, name, line); err != nil {
			fmt.Fprintf(r.errOut, "ERROR: %v\n", err)
		}
		if r.dump {
			vmDumper{vm: r.vm, out: r.errOut}.dump()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// runInteractive runs a terminal session through liner, persisting history.
func runInteractive(ctx context.Context, vm *VM, dump bool) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	return repl{
		vm:     vm,
		lines:  ln,
		errOut: os.Stderr,
		dump:   dump,
	}.run(ctx)
}
