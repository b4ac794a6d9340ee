package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/markex/log"
	"github.com/ardnew/markex/markup"
	"github.com/ardnew/markex/markup/parser"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSources concatenates the contents of the given source paths in
// order. An empty list, or the path "-", reads stdin.
func readSources(paths []string) (string, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var b strings.Builder

	for i, path := range paths {
		if i > 0 {
			// Keep items from adjacent files separated.
			b.WriteString("\n\n")
		}

		if path == stdinSource {
			if _, err := io.Copy(&b, os.Stdin); err != nil {
				return "", err
			}

			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}

		b.Write(data)
	}

	return b.String(), nil
}

// transformModule parses one source unit, applies the markup transform,
// and returns the module for rendering.
func transformModule(src string) (*markup.Module, error) {
	mod, marks, err := parser.ParseModule(src)
	if err != nil {
		return nil, err
	}

	engine := markup.NewEngine(
		markup.DefaultCatalog(),
		markup.WithMarks(marks),
		markup.WithLogger(log.Default()),
	)

	if err := engine.Apply(mod); err != nil {
		return nil, err
	}

	return mod, nil
}

// renderItem prints one module item back as source text.
func renderItem(w io.Writer, item markup.Item) {
	switch it := item.(type) {
	case *markup.Directive:
		if _, ok := it.Value.(*ast.NilNode); ok {
			io.WriteString(w, "#"+it.Name+"\n")

			return
		}

		io.WriteString(w, "#"+it.Name+" "+it.Value.String()+"\n")

	case *markup.Binding:
		if it.Name != "" {
			io.WriteString(w, it.Name+" := "+it.Expr.String()+"\n")

			return
		}

		io.WriteString(w, it.Expr.String()+"\n")
	}
}
