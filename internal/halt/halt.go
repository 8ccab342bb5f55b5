// Package halt implements early termination of a computation by panic,
// recovered back into an ordinary error return by Run.
package halt

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Halt stops the computation running under Run, causing Run to return err.
// A nil err is a normal stop.
func Halt(err error) { panic(haltError{err}) }

// If halts with err when it is non-nil.
func If(err error) {
	if err != nil {
		Halt(err)
	}
}

type haltError struct{ error }

func (he haltError) Error() string {
	if he.error != nil {
		return fmt.Sprintf("halted: %v", he.error)
	}
	return "halted"
}

func (he haltError) Unwrap() error { return he.error }

// Run runs f in a new goroutine wrapped in defer logic that recovers Halt,
// any other panic, and runtime.Goexit as error returns.
func Run(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}

func recoverPanicError(name string, errch chan<- error) {
	e := recover()
	if e == nil {
		return
	}
	var err error
	if he, ok := e.(haltError); ok {
		err = he.error
	} else {
		err = panicError{name, e, debug.Stack()}
	}
	select {
	case errch <- err:
	default:
	}
}

func recoverExitError(name string, errch chan<- error) {
	select {
	case errch <- exitError(name):
	default:
		// the happy path, or a recovered panic, already sent
	}
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

// IsPanic returns true if err indicates a recovered panic, other than Halt.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
