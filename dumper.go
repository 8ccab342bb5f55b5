package main

import (
	"fmt"
	"io"

	"github.com/jcorbin/goexpand/internal/runeio"
)

type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	dump.dumpSettings()
	dump.dumpBuffers()
	dump.dumpContexts()
	dump.dumpVars()
}

func (dump vmDumper) dumpSettings() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "  prefix: %q\n", vm.env.prefix)
	fmt.Fprintf(dump.out, "  uniques: %v\n", runeio.FormatSet(vm.lexer.Uniques))
	fmt.Fprintf(dump.out, "  separators: %v\n", runeio.FormatSet(vm.lexer.Separators))
	fmt.Fprintf(dump.out, "  primary separator: %v\n", runeio.FormatSet(vm.lexer.PrimarySeparator))
	fmt.Fprintf(dump.out, "  last: %q = %q\n", vm.env.cachedName, vm.env.cachedValue)
	if vm.env.filePath != "" {
		fmt.Fprintf(dump.out, "  path: %q\n", vm.env.filePath)
	}
}

func (dump vmDumper) dumpBuffers() {
	fmt.Fprintf(dump.out, "  primary: %q\n", dump.vm.primary)
	fmt.Fprintf(dump.out, "  secondary: %q\n", dump.vm.secondary)
}

func (dump vmDumper) dumpContexts() {
	contexts := dump.vm.tok.contexts
	if len(contexts) == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Program Contexts\n")
	for i := len(contexts) - 1; i >= 0; i-- {
		pc := contexts[i]
		fmt.Fprintf(dump.out, "  [%v] @%v/%v %q\n", i, pc.cursor, len(pc.text), pc.remaining())
	}
}

func (dump vmDumper) dumpVars() {
	if dump.vm.env.vars.len() == 0 {
		return
	}
	fmt.Fprintf(dump.out, "# Variables\n")
	dump.vm.env.each(func(name string, value Value) {
		switch v := value.(type) {
		case Instruction:
			fmt.Fprintf(dump.out, "  %q: %v\n", name, v)
		case Text:
			fmt.Fprintf(dump.out, "  %q = %q\n", name, string(v))
		}
	})
}
