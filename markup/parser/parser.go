package parser

import (
	"strings"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"

	"github.com/ardnew/markex/markup"
)

// ParseExpression parses one host expression that may contain embedded
// markup notation anywhere an operand may appear. Markup literals are
// lowered to their call form and recorded in the returned marker set;
// everything else is parsed by the host grammar unchanged.
func ParseExpression(src string) (ast.Node, markup.Marks, error) {
	marks := markup.Marks{}

	node, err := parseSource(src, marks)
	if err != nil {
		return nil, nil, err
	}

	return node, marks, nil
}

// parseSource runs the full pipeline over one expression text: excise
// markup regions, parse the remaining host text, then graft the lowered
// markup back over its placeholders.
func parseSource(src string, marks markup.Marks) (ast.Node, error) {
	s := newScanner(src, marks)

	rewritten, err := s.rewrite()
	if err != nil {
		return nil, err
	}

	tree, err := exprparser.Parse(rewritten)
	if err != nil {
		return nil, markup.WrapError(err)
	}

	node := tree.Node
	if len(s.regions) > 0 {
		graft(&node, s.regions)
	}

	return node, nil
}

// grafter substitutes placeholder identifiers with their excised markup
// nodes during a host-tree walk.
type grafter struct {
	regions map[string]ast.Node
}

func (g *grafter) Visit(node *ast.Node) {
	id, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}

	if repl, ok := g.regions[id.Value]; ok {
		ast.Patch(node, repl)
	}
}

func graft(node *ast.Node, regions map[string]ast.Node) {
	ast.Walk(node, &grafter{regions: regions})
}

// ParseModule parses a source unit into its top-level items. Items are
// separated by blank lines; a line starting with '#' is a directive, and
// an item of the form `name := expr` is a named binding. Anything else
// is a bare expression binding.
func ParseModule(src string) (*markup.Module, markup.Marks, error) {
	marks := markup.Marks{}
	mod := &markup.Module{}

	lines := strings.Split(src, "\n")

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])

		if line == "" {
			i++

			continue
		}

		if strings.HasPrefix(line, "#") {
			dir, err := parseDirective(line, marks)
			if err != nil {
				return nil, nil, err
			}

			mod.Items = append(mod.Items, dir)
			i++

			continue
		}

		// An expression item spans up to the next blank line.
		start := i
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" &&
			!strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
			i++
		}

		item, err := parseBinding(
			strings.Join(lines[start:i], "\n"), marks,
		)
		if err != nil {
			return nil, nil, err
		}

		mod.Items = append(mod.Items, item)
	}

	return mod, marks, nil
}

// parseDirective parses a `#name payload` line. The payload, when
// present, is a host expression; directive semantics are left to the
// engine.
func parseDirective(line string, marks markup.Marks) (*markup.Directive, error) {
	body := strings.TrimPrefix(line, "#")

	s := newScanner(body, marks)

	name := s.scanIdent()
	if name == "" {
		return nil, syntaxError(line, 1, "expected directive name")
	}

	payload := strings.TrimSpace(body[s.pos:])

	var value ast.Node = &ast.NilNode{}

	if payload != "" {
		node, err := parseSource(payload, marks)
		if err != nil {
			return nil, err
		}

		value = node
	}

	return &markup.Directive{Name: name, Value: value}, nil
}

// parseBinding parses one expression item, splitting off a leading
// `name :=` when present.
func parseBinding(text string, marks markup.Marks) (*markup.Binding, error) {
	name, body := splitBinding(text)

	node, err := parseSource(body, marks)
	if err != nil {
		return nil, err
	}

	return &markup.Binding{Name: name, Expr: node}, nil
}

// splitBinding recognizes the `name := expr` form. Any other shape is a
// bare expression with an empty name.
func splitBinding(text string) (name, body string) {
	trimmed := strings.TrimLeft(text, " \t")

	i := 0
	for i < len(trimmed) && isAlnum(trimmed[i]) {
		i++
	}

	if i == 0 {
		return "", text
	}

	rest := strings.TrimLeft(trimmed[i:], " \t")
	if !strings.HasPrefix(rest, ":=") {
		return "", text
	}

	return trimmed[:i], rest[len(":="):]
}
