package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

var (
	recvType = flag.String("type", "vmTestCase", "builder type whose methods get wrapped")
	infix    = flag.String("infix", "VM", "inserted after the with/expect prefix of each wrapper name")

	inName  = "vm_test.go"
	out     io.WriteCloser = os.Stdout
	genArgs []string
)

func parseFlags() {
	flag.Parse()

	genArgs = flag.Args()
	args := genArgs

	if len(args) > 0 {
		inName = args[0]
		args = args[1:]
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ready:
		}

		defer func() {
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

type builderMethod struct {
	name   string
	params []*ast.Field
}

// builderMethods returns every method of the form
//
//	func (vmt T) withX(args...) T
//	func (vmt T) expectX(args...) T
//
// that takes at least one argument.
func builderMethods(file *ast.File) (methods []builderMethod) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
			continue
		}
		if !isIdent(fn.Recv.List[0].Type, *recvType) {
			continue
		}
		if !strings.HasPrefix(fn.Name.Name, "with") && !strings.HasPrefix(fn.Name.Name, "expect") {
			continue
		}
		if fn.Type.Params.NumFields() == 0 {
			continue
		}
		if res := fn.Type.Results; res == nil || len(res.List) != 1 || !isIdent(res.List[0].Type, *recvType) {
			continue
		}
		methods = append(methods, builderMethod{fn.Name.Name, fn.Type.Params.List})
	}
	return methods
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

func run(ctx context.Context) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, inName, nil, 0)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(1024)
	buf.WriteString("package main\n\n")

	buf.WriteString("// @generated from ")
	buf.WriteString(inName)
	buf.WriteString("\n\n")

	if len(genArgs) >= 2 {
		buf.WriteString("//go:generate go run scripts/gen_vm_expects.go --")
		for _, arg := range genArgs {
			buf.WriteByte(' ')
			buf.WriteString(arg)
		}
		buf.WriteString("\n\n")
	}

	for _, method := range builderMethods(file) {
		base := "with"
		if strings.HasPrefix(method.name, "expect") {
			base = "expect"
		}

		var params, args []string
		for _, field := range method.params {
			var typ bytes.Buffer
			if err := printer.Fprint(&typ, fset, field.Type); err != nil {
				return err
			}
			_, variadic := field.Type.(*ast.Ellipsis)
			var names []string
			for _, name := range field.Names {
				names = append(names, name.Name)
				if variadic {
					args = append(args, name.Name+"...")
				} else {
					args = append(args, name.Name)
				}
			}
			params = append(params, strings.Join(names, ", ")+" "+typ.String())
		}

		fmt.Fprintf(&buf, "func %s%s%s(%s) func(%s) %s {\n",
			base, *infix, strings.TrimPrefix(method.name, base),
			strings.Join(params, ", "), *recvType, *recvType)
		fmt.Fprintf(&buf, "\treturn func(vmt %s) %s {\n", *recvType, *recvType)
		fmt.Fprintf(&buf, "\t\treturn vmt.%s(%s)\n", method.name, strings.Join(args, ", "))
		buf.WriteString("\t}\n}\n\n")

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	_, err = buf.WriteTo(out)
	return err
}
