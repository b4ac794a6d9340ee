package markup

import (
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
)

// Kind discriminates the two classifications a transformed value can take.
type Kind int

const (
	// KindLiteral marks a value fully known at transform time.
	KindLiteral Kind = iota // literal

	// KindAntiquote marks an opaque host-language expression embedded
	// unchanged in the output.
	KindAntiquote // antiquote
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindAntiquote:
		return "antiquote"
	default:
		return "unknown"
	}
}

// Value is the universal classified-value representation used for both
// attribute values and children: either a literal of type T known during
// the transform, or an escaped host expression carried through as-is.
//
// The classification never changes once a Value is constructed.
type Value[T any] struct {
	Kind Kind
	Lit  T        // valid when Kind is KindLiteral
	Expr ast.Node // valid when Kind is KindAntiquote
}

// Literal constructs a Value classified as a transform-time literal.
func Literal[T any](v T) Value[T] {
	return Value[T]{Kind: KindLiteral, Lit: v}
}

// Antiquote constructs a Value classified as an opaque host expression.
func Antiquote[T any](expr ast.Node) Value[T] {
	return Value[T]{Kind: KindAntiquote, Expr: expr}
}

// Attribute is one normalized attribute of a markup node.
//
// Attributes live only for the duration of a single element transform:
// they are produced by attribute extraction and consumed immediately by
// the catalog's call builder.
type Attribute struct {
	Name  string
	Value Value[string]
	Loc   file.Location
}

// Child is one classified child of a markup node: a literal constructed
// subtree (promoted text or transformed nested markup) or an opaque
// expression spliced in from the host language.
type Child = Value[ast.Node]

// childNode returns the output expression a child contributes, regardless
// of its classification.
func childNode(c Child) ast.Node {
	if c.Kind == KindLiteral {
		return c.Lit
	}

	return c.Expr
}

// Children is the ordered child sequence extracted from one markup node.
//
// Exactly one representation is populated: Nodes for the literal
// child-list shape (source order preserved), or Expr for the opaque
// list-expression shape, which the engine does not decompose further.
type Children struct {
	Nodes []Child
	Expr  ast.Node
}

// IsOpaque reports whether the children were supplied as an arbitrary
// list expression rather than a literal child list.
func (c Children) IsOpaque() bool { return c.Expr != nil }
