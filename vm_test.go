package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/goexpand/internal/logio"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []interface{}
	ops     []func(vm *VM) bool
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive     bool
	nextProgramID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withProgram(text string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := t.Name() + "/program"
		if id := vmt.nextProgramID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextProgramID++
		return WithSource(name, text)
	})
	return vmt
}

func (vmt vmTestCase) withNamedProgram(name, text string) vmTestCase {
	vmt.opts = append(vmt.opts, WithSource(name, text))
	return vmt
}

func (vmt vmTestCase) withPrimary(words ...string) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.primary = append(vm.primary, words...)
	}))
	return vmt
}

func (vmt vmTestCase) withSecondary(words ...string) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.secondary = append(vm.secondary, words...)
	}))
	return vmt
}

func (vmt vmTestCase) withVar(name, value string) vmTestCase {
	vmt.opts = append(vmt.opts, WithVar(name, value))
	return vmt
}

func (vmt vmTestCase) withKeyword(name string, op Instruction) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.env.define(name, op)
	}))
	return vmt
}

func (vmt vmTestCase) withLast(name, value string) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		vm.env.cachedName = name
		vm.env.cachedValue = value
	}))
	return vmt
}

func (vmt vmTestCase) withUniques(uniques string) vmTestCase {
	vmt.opts = append(vmt.opts, WithUniques(uniques))
	return vmt
}

func (vmt vmTestCase) withSeparators(separators string) vmTestCase {
	vmt.opts = append(vmt.opts, WithSeparators(separators))
	return vmt
}

func (vmt vmTestCase) withPrefix(prefix string) vmTestCase {
	vmt.opts = append(vmt.opts, WithPrefix(prefix))
	return vmt
}

func (vmt vmTestCase) withFilePath(path string) vmTestCase {
	vmt.opts = append(vmt.opts, WithFilePath(path))
	return vmt
}

func (vmt vmTestCase) withContextLimit(limit int) vmTestCase {
	vmt.opts = append(vmt.opts, WithContextLimit(limit))
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM) bool) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectPrimary(words ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if words == nil {
			words = []string{}
		}
		assert.Equal(t, words, append([]string{}, vm.primary...), "expected primary buffer")
	})
	return vmt
}

func (vmt vmTestCase) expectSecondary(words ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if words == nil {
			words = []string{}
		}
		assert.Equal(t, words, append([]string{}, vm.secondary...), "expected secondary buffer")
	})
	return vmt
}

func (vmt vmTestCase) expectText(name, value string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		actual, defined := vm.env.vars.lookup(name)
		if assert.True(t, defined, "expected %q to be defined", name) {
			assert.Equal(t, Text(value), actual, "expected %q value", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectKeyword(name string, op Instruction) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		actual, defined := vm.env.vars.lookup(name)
		if assert.True(t, defined, "expected %q to be defined", name) {
			assert.Equal(t, op, actual, "expected %q value", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectUndefined(name string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		_, defined := vm.env.vars.lookup(name)
		assert.False(t, defined, "expected %q to be undefined", name)
	})
	return vmt
}

func (vmt vmTestCase) expectLast(name, value string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, name, vm.env.cachedName, "expected last assigned name")
		assert.Equal(t, value, vm.env.cachedValue, "expected last assigned value")
	})
	return vmt
}

func (vmt vmTestCase) expectUniques(uniques string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, uniques, vm.lexer.Uniques, "expected uniques")
	})
	return vmt
}

func (vmt vmTestCase) expectSeparators(separators string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, separators, vm.lexer.Separators, "expected separators")
	})
	return vmt
}

func (vmt vmTestCase) expectPrimarySeparator(sep string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, sep, vm.lexer.PrimarySeparator, "expected primary separator")
	})
	return vmt
}

func (vmt vmTestCase) expectPrefix(prefix string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, prefix, vm.env.prefix, "expected sysvar prefix")
	})
	return vmt
}

func (vmt vmTestCase) expectFilePath(path string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, path, vm.env.filePath, "expected file path")
	})
	return vmt
}

// expectContexts expects the remaining text of each program context, from
// the top of the stack down.
func (vmt vmTestCase) expectContexts(remaining ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if remaining == nil {
			remaining = []string{}
		}
		actual := make([]string, 0, len(vm.tok.contexts))
		for i := len(vm.tok.contexts) - 1; i >= 0; i-- {
			actual = append(actual, vm.tok.contexts[i].remaining())
		}
		assert.Equal(t, remaining, actual, "expected program contexts")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{vm: vm, out: &out}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Logf: t.Logf, Prefix: "out: "})
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	var trace []string
	vm := vmt.buildVM(t)
	WithLogf(func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	}).apply(vm)

	vmt.runVMTest(context.Background(), t, vm)

	if t.Failed() {
		for _, line := range trace {
			t.Log(line)
		}
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()

	if len(vmt.ops) == 0 {
		return vm.Run(ctx)
	}

	names := make([]string, len(vmt.ops))
	for i, op := range vmt.ops {
		names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	}
	return vm.runHalting("vmTestCase.ops", func() {
		srcs, err := vm.ReadAll()
		vm.haltif(err)
		vm.load(srcs)
		for i, op := range vmt.ops {
			vm.logf(">", "do[%v] %v", i, names[i])
			op(vm)
			vm.haltif(ctx.Err())
		}
	})
}

func (vmt *vmTestCase) buildVM(t *testing.T) *VM {
	vm := newVM()
	defaultOptions.apply(vm)

	var opt VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opt = VMOptions(opt, impl(vmt, t))
		case VMOption:
			opt = VMOptions(opt, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	if opt != nil {
		opt.apply(vm)
	}
	return vm
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
