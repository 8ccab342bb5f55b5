package main

import (
	"context"
	"io"

	"github.com/jcorbin/goexpand/internal/halt"
)

// New creates a VM, applying the given options after defaults.
func New(opts ...VMOption) *VM {
	vm := newVM()
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
	return vm
}

// Run reads all queued program sources, and executes them until no words
// remain. Sources are read in the order given: each starts once the
// previous one is exhausted. Returns nil on normal completion, or the
// error that halted the VM.
func (vm *VM) Run(ctx context.Context) error {
	return vm.runHalting("VM", func() {
		srcs, err := vm.ReadAll()
		vm.haltif(err)
		vm.load(srcs)
		vm.exec(ctx)
	})
}

// Eval executes text as a new program against the VM's current state,
// discarding any program context left over from a prior halt.
func (vm *VM) Eval(ctx context.Context, name, text string) error {
	return vm.runHalting(name, func() {
		vm.tok.reset()
		vm.pushContext(name, text)
		vm.exec(ctx)
	})
}

func (vm *VM) runHalting(name string, f func()) error {
	return halt.Run(name, func() error {
		f()
		return vm.out.Flush()
	})
}

func WithInput(r io.Reader) VMOption         { return withInput(r) }
func WithSource(name, text string) VMOption  { return withSource(name, text) }
func WithOutput(w io.Writer) VMOption        { return withOutput(w) }
func WithTee(w io.Writer) VMOption           { return withTee(w) }
func WithUniques(s string) VMOption          { return withUniques(s) }
func WithSeparators(s string) VMOption       { return withSeparators(s) }
func WithPrimarySeparator(s string) VMOption { return withPrimarySeparator(s) }
func WithPrefix(s string) VMOption           { return withPrefix(s) }
func WithFilePath(path string) VMOption      { return withFilePath(path) }
func WithContextLimit(limit int) VMOption    { return withContextLimit(limit) }
func WithVar(name, value string) VMOption    { return withVar(name, value) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
