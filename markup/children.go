package markup

import (
	"github.com/expr-lang/expr/ast"
)

// findChildren locates the children-labeled argument of a lowered call.
// Absence is not an error; the node simply has no children.
func findChildren(args []ast.Node) ast.Node {
	for _, arg := range args {
		pair, ok := arg.(*ast.PairNode)
		if !ok {
			continue
		}

		if label, ok := pair.Key.(*ast.StringNode); ok &&
			label.Value == childrenLabel {
			return pair.Value
		}
	}

	return nil
}

// extractChildren produces the ordered child sequence of one markup node,
// with hint as the namespace its children inherit.
//
// A literal child list is walked head to tail, mapping each element in
// source order. Any other children expression is mapped once as a whole
// and carried opaquely: only the construction API's own list semantics
// can merge an arbitrary runtime list with typed children, so the engine
// does not decompose it.
func (e *Engine) extractChildren(
	args []ast.Node,
	hint *Namespace,
) (Children, error) {
	arg := findChildren(args)
	if arg == nil {
		return Children{}, nil
	}

	if arr, ok := arg.(*ast.ArrayNode); ok {
		return e.mapChildList(arr, hint)
	}

	expr, err := e.mapExpr(arg, hint)
	if err != nil {
		return Children{}, err
	}

	return Children{Expr: expr}, nil
}

// mapChildList maps each element of a literal child list in source order.
// An empty literal yields an empty sequence, not an opaque expression.
func (e *Engine) mapChildList(
	arr *ast.ArrayNode,
	hint *Namespace,
) (Children, error) {
	children := Children{Nodes: make([]Child, 0, len(arr.Nodes))}

	for _, n := range arr.Nodes {
		child, err := e.mapChild(n, hint)
		if err != nil {
			return Children{}, err
		}

		children.Nodes = append(children.Nodes, child)
	}

	return children, nil
}

// mapChild applies the element mapper to one child: string constants are
// promoted to text-construction calls, nested markup is transformed
// recursively, and anything else remains an escaped expression (after
// rewriting any markup buried inside it).
func (e *Engine) mapChild(n ast.Node, hint *Namespace) (Child, error) {
	if s, ok := n.(*ast.StringNode); ok {
		return Literal(e.catalog.Text(s.Value, s.Location())), nil
	}

	if e.marks.Has(n) {
		out, ok, err := e.transform(n, hint)
		if err != nil {
			return Child{}, err
		}

		if ok {
			return Literal(out), nil
		}
	}

	expr, err := e.mapExpr(n, hint)
	if err != nil {
		return Child{}, err
	}

	return Antiquote[ast.Node](expr), nil
}

// mapExpr rewrites any markup reachable within an expression and returns
// the (possibly replaced) expression.
func (e *Engine) mapExpr(n ast.Node, hint *Namespace) (ast.Node, error) {
	if err := e.rewriteSubtree(&n, hint); err != nil {
		return nil, err
	}

	return n, nil
}
