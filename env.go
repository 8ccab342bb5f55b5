package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Value is the result of resolving a word: either Text, or an Instruction.
type Value interface {
	isValue()
}

// Text is literal program text; when executed it is expanded as new source.
type Text string

func (Text) isValue() {}

// Instruction is one of the builtin operations.
type Instruction uint8

func (Instruction) isValue() {}

// Here's a handy summary of all the instructions, along with the system
// variable suffix that names each.
const (
	SwapBuffer      Instruction = iota // :  exchange the primary and secondary buffers
	SkipNext                           // "  append the next raw word to the primary buffer
	ExpandPrevious                     // !  expand the top of the primary buffer
	CrazySwap                          // ?  trade two words of program with two buffer values
	JoinValues                         // ,  concatenate the top two primary buffer values
	EndLine                            // ;  assign secondary (name) <- primary (value)
	DereferenceLast                    // &  replace a variable with the value it names
	IfLess                             // <  skip the next word unless next < top

	numInstructions
)

var instructionNames = [numInstructions]string{
	"SwapBuffer",
	"SkipNext",
	"ExpandPrevious",
	"CrazySwap",
	"JoinValues",
	"EndLine",
	"DereferenceLast",
	"IfLess",
}

func (op Instruction) String() string {
	if op < numInstructions {
		return instructionNames[op]
	}
	return fmt.Sprintf("Instruction(%d)", uint8(op))
}

var instructionSuffixes = map[string]Instruction{
	":":  SwapBuffer,
	"\"": SkipNext,
	"!":  ExpandPrevious,
	"?":  CrazySwap,
	",":  JoinValues,
	";":  EndLine,
	"&":  DereferenceLast,
	"<":  IfLess,
}

const defaultPrefix = "$"

var (
	errInputUnimplemented            = errors.New("input is not yet implemented")
	errNonBlockingInputUnimplemented = errors.New("non blocking input is not yet implemented")
	errConsoleUnimplemented          = errors.New("running console commands is not yet implemented")
	errFileWriteUnimplemented        = errors.New("setting file contents is not yet implemented")
)

type sysvarError struct {
	name string
	err  error
}

func (sve sysvarError) Error() string { return fmt.Sprintf("%v: %v", sve.name, sve.err) }
func (sve sysvarError) Unwrap() error { return sve.err }

// environment is the variable store: a mapping from names to values, plus
// the system variable namespace selected by prefix.
type environment struct {
	vars varTable

	cachedName  string
	cachedValue string
	filePath    string
	prefix      string

	lexer    *LexerConfig
	output   func(line string) error
	readFile func(name string) ([]byte, error)
}

func (env *environment) init(lexer *LexerConfig) {
	env.lexer = lexer
	env.prefix = defaultPrefix
	if env.readFile == nil {
		env.readFile = os.ReadFile
	}
}

func (env *environment) sysvar(name string) (suffix string, is bool) {
	if strings.HasPrefix(name, env.prefix) {
		return name[len(env.prefix):], true
	}
	return "", false
}

// get resolves name, an undefined name resolves to empty Text.
func (env *environment) get(name string) (Value, error) {
	if suffix, is := env.sysvar(name); is {
		return env.getSys(name, suffix)
	}
	if value, defined := env.vars.lookup(name); defined {
		return value, nil
	}
	return Text(""), nil
}

func (env *environment) getSys(name, suffix string) (Value, error) {
	if op, defined := instructionSuffixes[suffix]; defined {
		return op, nil
	}
	switch suffix {
	case "n":
		return Text(env.cachedName), nil
	case "v":
		return Text(env.cachedValue), nil
	case "i":
		return nil, sysvarError{name, errInputUnimplemented}
	case "I":
		return nil, sysvarError{name, errNonBlockingInputUnimplemented}
	case "p":
		return Text(env.filePath), nil
	case "f":
		b, err := env.readFile(env.filePath)
		if err != nil || !utf8.Valid(b) {
			return Text(""), nil
		}
		return Text(b), nil
	case "u":
		return Text(env.lexer.Uniques), nil
	case "s":
		return Text(env.lexer.Separators), nil
	case "S":
		return Text(env.lexer.PrimarySeparator), nil
	case "$":
		return Text(env.prefix), nil
	}
	return Text(""), nil
}

// set assigns text to name, or applies the side effect of a system variable
// write; either way the name and value are cached for $n and $v.
func (env *environment) set(name, value string) error {
	env.cachedName = name
	env.cachedValue = value
	if suffix, is := env.sysvar(name); is {
		return env.setSys(name, suffix, value)
	}
	env.define(name, Text(value))
	return nil
}

func (env *environment) setSys(name, suffix, value string) error {
	switch suffix {
	case "o":
		if env.output != nil {
			return env.output(value)
		}
	case "c":
		return sysvarError{name, errConsoleUnimplemented}
	case "p":
		env.filePath = value
	case "f":
		return sysvarError{name, errFileWriteUnimplemented}
	case "u":
		env.lexer.Uniques = value
	case "s":
		env.lexer.Separators = value
	case "S":
		env.lexer.PrimarySeparator = value
	case "$":
		env.prefix = value
	}
	return nil
}

// setObject stores any value under name, ignoring system variable names.
func (env *environment) setObject(name string, value Value) {
	if _, is := env.sysvar(name); is {
		return
	}
	env.define(name, value)
}

func (env *environment) define(name string, value Value) { env.vars.define(name, value) }

// each calls f with every defined variable, in order of first definition.
func (env *environment) each(f func(name string, value Value)) { env.vars.each(f) }
