package main

import (
	"context"
	"strings"

	"github.com/jcorbin/goexpand/internal/fileinput"
)

// VM executes programs a word at a time: each word read is resolved through
// the environment, and is either one of the eight builtin instructions, or
// text that gets expanded back into the program as new source.
type VM struct {
	Core

	// lexer is shared by the tokenizer and the environment.
	lexer LexerConfig

	tok tokenizer
	env environment

	// The primary and secondary buffers are the only operand storage; all
	// instructions work on their last element.
	primary   []string
	secondary []string
}

func newVM() *VM {
	vm := &VM{lexer: defaultLexerConfig()}
	vm.tok.config = &vm.lexer
	vm.tok.exhausted = func(index int) { vm.logf("-", "[%v] exhausted", index) }
	vm.env.init(&vm.lexer)
	vm.env.output = vm.writeLine
	return vm
}

func (vm *VM) load(srcs []fileinput.Source) {
	for i := len(srcs) - 1; i >= 0; i-- {
		vm.pushContext(srcs[i].Location.String(), srcs[i].Text)
	}
}

func (vm *VM) exec(ctx context.Context) {
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	for vm.step() {
		vm.haltif(ctx.Err())
	}
}

// step reads and executes one word, returning false once the program is
// done.
func (vm *VM) step() bool {
	word, ok := vm.tok.next()
	if !ok {
		vm.logf("-", "end of program")
		return false
	}
	switch value := vm.lookup(word).(type) {
	case Instruction:
		vm.logf("!", "%v %v -- p:%q s:%q", word, value, vm.primary, vm.secondary)
		return !vmCodeTable[value](vm)
	case Text:
		vm.logf(">", "%v", word)
		vm.pushContext(word, string(value))
	}
	return true
}

func (vm *VM) withLogPrefix(prefix string) func() {
	logfn := vm.logfn
	vm.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		vm.logfn = logfn
	}
}

func (vm *VM) lookup(word string) Value {
	value, err := vm.env.get(word)
	vm.haltif(err)
	return value
}

func (vm *VM) assign(name, value string) {
	vm.logf("=", "%q <- %q", name, value)
	vm.haltif(vm.env.set(name, value))
}

// pushContext pushes text as a new program context, named in trace logs.
func (vm *VM) pushContext(name, text string) {
	vm.haltif(vm.tok.push(text))
	vm.logf("+", "[%v] %v %q", vm.tok.depth()-1, name, text)
}

func (vm *VM) push(word string) {
	vm.primary = append(vm.primary, word)
}

func (vm *VM) pop() (string, bool) {
	i := len(vm.primary) - 1
	if i < 0 {
		return "", false
	}
	word := vm.primary[i]
	vm.primary = vm.primary[:i]
	return word, true
}

//// Instructions
//
// Each returns true only if the whole run should end.

// Symbol   Name         Function
//   :      SwapBuffer   exchange the primary and secondary buffers
func (vm *VM) swapBuffer() bool {
	vm.primary, vm.secondary = vm.secondary, vm.primary
	return false
}

// Symbol   Name       Function
//   "      SkipNext   read the next word, without resolving it, onto the
//                     primary buffer; ends the run if there is none
func (vm *VM) skipNext() bool {
	word, ok := vm.tok.next()
	if !ok {
		return true
	}
	vm.push(word)
	return false
}

// Symbol   Name             Function
//   !      ExpandPrevious   pop a word from the primary buffer; if it names an
//                           instruction, push it back into the program to be
//                           executed; otherwise push the words of its text
//                           value onto the primary buffer
func (vm *VM) expandPrevious() bool {
	word, ok := vm.pop()
	if !ok {
		return false
	}
	switch value := vm.lookup(word).(type) {
	case Instruction:
		vm.pushContext(word, word)
	case Text:
		vm.primary = append(vm.primary, words(&vm.lexer, string(value))...)
	}
	return false
}

// Symbol   Name        Function
//   ?      CrazySwap   the next two program words go onto the primary buffer,
//                      and the top two primary buffer values become the next
//                      two program words
func (vm *VM) crazySwap() bool {
	t1, haveT1 := vm.tok.next()
	t2, haveT2 := vm.tok.next()
	b1, haveB1 := vm.pop()
	b2, haveB2 := vm.pop()
	if haveB2 {
		vm.pushContext(b2, b2)
	}
	if haveB1 {
		vm.pushContext(b1, b1)
	}
	if haveT2 {
		vm.push(t2)
	}
	if haveT1 {
		vm.push(t1)
	}
	return false
}

// Symbol   Name         Function
//   ,      JoinValues   pop the top two primary buffer values, push their
//                       concatenation (second + top)
func (vm *VM) joinValues() bool {
	a, ok := vm.pop()
	if !ok {
		return false
	}
	if b, ok := vm.pop(); ok {
		a = b + a
	}
	vm.push(a)
	return false
}

// Symbol   Name      Function
//   ;      EndLine   assign the space-joined secondary buffer (name) the
//                    space-joined primary buffer (value), clearing both
func (vm *VM) endLine() bool {
	value := strings.Join(vm.primary, " ")
	name := strings.Join(vm.secondary, " ")
	vm.assign(name, value)
	vm.primary = vm.primary[:0]
	vm.secondary = vm.secondary[:0]
	return false
}

// Symbol   Name              Function
//   &      DereferenceLast   the variable named by the top of the primary
//                            buffer is replaced with the value of the
//                            variable that its text names
func (vm *VM) dereferenceLast() bool {
	i := len(vm.primary) - 1
	if i < 0 {
		return false
	}
	name := vm.primary[i]
	if ref, ok := vm.lookup(name).(Text); ok {
		vm.env.setObject(name, vm.lookup(string(ref)))
	}
	return false
}

// Symbol   Name     Function
//   <      IfLess   pop top and next from the primary buffer; skip the next
//                   program word unless next < top, ordered by code point
func (vm *VM) ifLess() bool {
	top, haveTop := vm.pop()
	next, haveNext := vm.pop()
	skip := true
	if haveTop {
		skip = haveNext && !(next < top)
	}
	if skip {
		word, _ := vm.tok.next()
		vm.logf("!", "skip %q", word)
	}
	return false
}

var vmCodeTable [numInstructions]func(vm *VM) bool

func init() {
	vmCodeTable = [...]func(vm *VM) bool{
		(*VM).swapBuffer,
		(*VM).skipNext,
		(*VM).expandPrevious,
		(*VM).crazySwap,
		(*VM).joinValues,
		(*VM).endLine,
		(*VM).dereferenceLast,
		(*VM).ifLess,
	}
}
