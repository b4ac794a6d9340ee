package markup

import (
	"github.com/expr-lang/expr/ast"
)

// eachChild invokes fn on the address of each direct child of a node, in
// evaluation order, stopping at the first error. Passing addresses lets
// fn patch a child in place via ast.Patch.
//
// This is the engine's default recursive descent. It is deliberately
// parent-first: namespace inheritance flows from an element to its
// children, so markup must be discovered before its subtrees are
// processed (expr's own ast.Walk visits children first).
func eachChild(node *ast.Node, fn func(*ast.Node) error) error {
	switch n := (*node).(type) {
	case *ast.UnaryNode:
		return fn(&n.Node)

	case *ast.BinaryNode:
		if err := fn(&n.Left); err != nil {
			return err
		}

		return fn(&n.Right)

	case *ast.ChainNode:
		return fn(&n.Node)

	case *ast.MemberNode:
		if err := fn(&n.Node); err != nil {
			return err
		}

		return fn(&n.Property)

	case *ast.SliceNode:
		for _, child := range []*ast.Node{&n.Node, &n.From, &n.To} {
			if *child == nil {
				continue
			}

			if err := fn(child); err != nil {
				return err
			}
		}

		return nil

	case *ast.CallNode:
		if err := fn(&n.Callee); err != nil {
			return err
		}

		return eachNode(n.Arguments, fn)

	case *ast.BuiltinNode:
		return eachNode(n.Arguments, fn)

	case *ast.PredicateNode:
		return fn(&n.Node)

	case *ast.VariableDeclaratorNode:
		if err := fn(&n.Value); err != nil {
			return err
		}

		return fn(&n.Expr)

	case *ast.SequenceNode:
		return eachNode(n.Nodes, fn)

	case *ast.ConditionalNode:
		for _, child := range []*ast.Node{&n.Cond, &n.Exp1, &n.Exp2} {
			if err := fn(child); err != nil {
				return err
			}
		}

		return nil

	case *ast.ArrayNode:
		return eachNode(n.Nodes, fn)

	case *ast.MapNode:
		return eachNode(n.Pairs, fn)

	case *ast.PairNode:
		if err := fn(&n.Key); err != nil {
			return err
		}

		return fn(&n.Value)

	default:
		// Leaf nodes, and shapes that cannot contain markup.
		return nil
	}
}

// eachNode applies fn to each element of a node slice in order.
func eachNode(nodes []ast.Node, fn func(*ast.Node) error) error {
	for i := range nodes {
		if err := fn(&nodes[i]); err != nil {
			return err
		}
	}

	return nil
}
