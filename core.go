package main

import (
	"fmt"
	"io"

	"github.com/jcorbin/goexpand/internal/fileinput"
	"github.com/jcorbin/goexpand/internal/halt"
	"github.com/jcorbin/goexpand/internal/textio"
)

// Core holds the VM's connections to the outside world: queued program
// sources, the output stream, and trace logging.
type Core struct {
	logging
	fileinput.Input
	out     textio.WriteFlusher
	closers []io.Closer
}

// Close closes any resources opened by options, in reverse order.
func (core *Core) Close() (err error) {
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	core.closers = nil
	return err
}

func (core *Core) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		if err != nil {
			core.logf("#", "halt error: %v", err)
		} else {
			core.logf("#", "halt")
		}
	}()

	halt.Halt(err)
}

func (core *Core) haltif(err error) {
	if err != nil {
		core.halt(err)
	}
}

func (core *Core) writeLine(line string) error {
	return textio.WriteLine(core.out, line)
}

type logging struct {
	logfn func(mess string, args ...interface{})
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}

type contextLimitError int

func (lim contextLimitError) Error() string {
	return fmt.Sprintf("program context limit %d exceeded", int(lim))
}
