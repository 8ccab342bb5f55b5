package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jcorbin/goexpand/internal/logio"
)

func main() {
	ctx := context.Background()
	log := logio.NewLogger(os.Stderr)

	var (
		cwd              string
		configPath       string
		timeout          time.Duration
		trace            bool
		dump             bool
		interactive      bool
		contextLimit     int
		uniques          runeSetFlag
		separators       runeSetFlag
		primarySeparator runeSetFlag
		prefix           runeSetFlag
	)
	flag.StringVar(&cwd, "cwd", "", "change to this directory before loading programs")
	flag.StringVar(&cwd, "dir", "", "alias for -cwd")
	flag.StringVar(&configPath, "config", "", "load settings from a YAML file")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "dump VM state to stderr after running")
	flag.BoolVar(&interactive, "i", false, "run an interactive session after any programs")
	flag.IntVar(&contextLimit, "context-limit", 0, "limit program context nesting depth")
	flag.Var(&uniques, "uniques", "initial unique characters, as rune literals like '+' <SP> ^I")
	flag.Var(&separators, "separators", "initial separator characters, as rune literals")
	flag.Var(&primarySeparator, "primary-separator", "initial primary separator, as rune literals")
	flag.Var(&prefix, "prefix", "initial system variable prefix, as rune literals")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 && !interactive {
		fmt.Fprintf(os.Stderr, "usage: %v [options] FILE...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			log.Errorf("Could not change directory: %v", err)
			os.Exit(log.ExitCode())
		}
	}

	var opts []VMOption
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			log.Errorf("Could not load config: %v", err)
			os.Exit(log.ExitCode())
		}
		opts = append(opts, cfg.Options()...)
	}
	if uniques.set {
		opts = append(opts, WithUniques(uniques.value))
	}
	if separators.set {
		opts = append(opts, WithSeparators(separators.value))
	}
	if primarySeparator.set {
		opts = append(opts, WithPrimarySeparator(primarySeparator.value))
	}
	if prefix.set {
		opts = append(opts, WithPrefix(prefix.value))
	}
	if contextLimit != 0 {
		opts = append(opts, WithContextLimit(contextLimit))
	}
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	opts = append(opts, WithOutput(os.Stdout))

	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			log.Errorf("Could not run program: %v", err)
			os.Exit(log.ExitCode())
		}
		opts = append(opts, WithInput(f))
	}

	vm := New(opts...)
	defer func() {
		log.ErrorIf(vm.Close())
		os.Exit(log.ExitCode())
	}()

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := vm.Run(ctx)
	if dump {
		vmDumper{vm: vm, out: os.Stderr}.dump()
	}
	if err != nil {
		log.Errorf("%+v", err)
		return
	}

	if interactive {
		log.ErrorIf(runInteractive(ctx, vm, dump))
	}
}
