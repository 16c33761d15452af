// Command featurecheck walks a tree of Go source and flags two constructs
// that must never appear in kernel code: a `go` statement, and a call to
// runtime.SetFinalizer. Both assume a Go runtime scheduler and garbage
// collector backing the program; this kernel has neither -- tasks are
// switched by hand through internal/context.Switch, and every frame's
// lifetime is tracked explicitly by internal/mem and internal/memset.
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

type finding struct {
	pos  string
	kind string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("featurecheck <path>")
		os.Exit(2)
	}

	var findings []finding
	dir := os.Args[1]
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		findings = append(findings, checkFile(path)...)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "featurecheck: %v\n", err)
		os.Exit(1)
	}

	for _, f := range findings {
		fmt.Printf("%s: disallowed %s\n", f.pos, f.kind)
	}
	if len(findings) > 0 {
		os.Exit(1)
	}
}

func checkFile(path string) []finding {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featurecheck: %s: %v\n", path, err)
		return nil
	}

	var findings []finding
	ast.Inspect(f, func(node ast.Node) bool {
		switch x := node.(type) {
		case *ast.GoStmt:
			findings = append(findings, finding{fset.Position(x.Pos()).String(), "go statement"})
		case *ast.CallExpr:
			if isSetFinalizer(x) {
				findings = append(findings, finding{fset.Position(x.Pos()).String(), "runtime.SetFinalizer call"})
			}
		}
		return true
	})
	return findings
}

func isSetFinalizer(c *ast.CallExpr) bool {
	sel, ok := c.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "SetFinalizer" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "runtime"
}
