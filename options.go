package main

import (
	"io"
	"strings"

	"github.com/jcorbin/goexpand/internal/textio"
)

// VMOption configures a VM when passed to New.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one, nil options are
// ignored.
func VMOptions(opts ...VMOption) VMOption {
	var all vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			all = append(all, impl...)
		default:
			all = append(all, impl)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

var defaultOptions = VMOptions(
	withOutput(io.Discard),
)

// NamedReader attaches a name to r, used to identify it in logs.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type uniquesOption string
type separatorsOption string
type primarySeparatorOption string
type prefixOption string
type filePathOption string
type contextLimitOption int
type varOption struct{ name, value string }

func withInput(r io.Reader) inputOption                    { return inputOption{r} }
func withOutput(w io.Writer) outputOption                  { return outputOption{w} }
func withTee(w io.Writer) teeOption                        { return teeOption{w} }
func withUniques(s string) uniquesOption                   { return uniquesOption(s) }
func withSeparators(s string) separatorsOption             { return separatorsOption(s) }
func withPrimarySeparator(s string) primarySeparatorOption { return primarySeparatorOption(s) }
func withPrefix(s string) prefixOption                     { return prefixOption(s) }
func withFilePath(path string) filePathOption              { return filePathOption(path) }
func withContextLimit(limit int) contextLimitOption        { return contextLimitOption(limit) }
func withVar(name, value string) varOption                 { return varOption{name, value} }

func (i inputOption) apply(vm *VM) {
	vm.Queue = append(vm.Queue, i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = textio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = textio.Tee(vm.out, textio.NewWriteFlusher(o.Writer))
}

func (s uniquesOption) apply(vm *VM)          { vm.lexer.Uniques = string(s) }
func (s separatorsOption) apply(vm *VM)       { vm.lexer.Separators = string(s) }
func (s primarySeparatorOption) apply(vm *VM) { vm.lexer.PrimarySeparator = string(s) }
func (s prefixOption) apply(vm *VM)           { vm.env.prefix = string(s) }
func (p filePathOption) apply(vm *VM)         { vm.env.filePath = string(p) }
func (lim contextLimitOption) apply(vm *VM)   { vm.tok.limit = int(lim) }

func (v varOption) apply(vm *VM) {
	if _, is := vm.env.sysvar(v.name); !is {
		vm.env.define(v.name, Text(v.value))
	}
}

func withSource(name, text string) inputOption {
	return withInput(NamedReader(name, strings.NewReader(text)))
}
