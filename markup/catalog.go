package markup

import (
	_ "embed"
	"io"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
)

// AssemblerRef identifies one constructor of the document API.
type AssemblerRef struct {
	NS   Namespace
	Name string
}

// Catalog is the per-namespace element capability table the engine
// consults, both for membership tests during namespace disambiguation
// and for constructing the output call tree.
type Catalog interface {
	// Find looks up the assembler for an element in a namespace.
	Find(ns Namespace, name string) (AssemblerRef, bool)

	// Build constructs the output call expression for one element, with
	// attributes and children in source order, at the original location.
	Build(
		ref AssemblerRef,
		attrs []Attribute,
		children Children,
		loc file.Location,
	) ast.Node

	// Text constructs the text-node promotion call for one string child.
	Text(s string, loc file.Location) ast.Node

	// List wraps a bare child-list fragment as a generic-namespace list
	// value.
	List(children Children, loc file.Location) ast.Node
}

// Fixed constructors of the generic namespace used for promotions.
const (
	textConstructor = "text"
	listConstructor = "list"
)

// defaultCatalogYAML is the element vocabulary shipped with markex. The
// catalog contents are policy data: which names exist in which namespace
// decides how unqualified tags resolve.
//
//go:embed catalog.yaml
var defaultCatalogYAML []byte

// TableCatalog is a Catalog backed by per-namespace element name tables,
// typically loaded from a YAML document.
type TableCatalog struct {
	elements map[Namespace]map[string]struct{}
}

// catalogDoc is the YAML document shape for element tables.
type catalogDoc struct {
	Markup namespaceDoc `yaml:"markup"`
	Vector namespaceDoc `yaml:"vector"`
}

// namespaceDoc lists the elements of one namespace.
type namespaceDoc struct {
	Elements []string `yaml:"elements"`
}

// ParseCatalog builds a TableCatalog from a YAML document.
func ParseCatalog(data []byte) (*TableCatalog, error) {
	var doc catalogDoc

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, WrapError(err)
	}

	c := &TableCatalog{
		elements: map[Namespace]map[string]struct{}{
			NamespaceMarkup: make(
				map[string]struct{}, len(doc.Markup.Elements),
			),
			NamespaceVector: make(
				map[string]struct{}, len(doc.Vector.Elements),
			),
		},
	}

	for _, name := range doc.Markup.Elements {
		c.elements[NamespaceMarkup][name] = struct{}{}
	}

	for _, name := range doc.Vector.Elements {
		c.elements[NamespaceVector][name] = struct{}{}
	}

	return c, nil
}

// LoadCatalog builds a TableCatalog from a YAML stream.
func LoadCatalog(r io.Reader) (*TableCatalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapError(err)
	}

	return ParseCatalog(data)
}

// DefaultCatalog returns the catalog built from the embedded element
// vocabulary. The embedded document is validated at build time, so a
// parse failure here is a packaging defect.
//
//nolint:gochecknoglobals
var DefaultCatalog = sync.OnceValue(func() *TableCatalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}

	return c
})

// Find implements Catalog.
func (c *TableCatalog) Find(
	ns Namespace,
	name string,
) (AssemblerRef, bool) {
	if _, ok := c.elements[ns][name]; !ok {
		return AssemblerRef{}, false
	}

	return AssemblerRef{NS: ns, Name: name}, true
}

// Elements returns the sorted element names of one namespace, for
// listing and completion surfaces.
func (c *TableCatalog) Elements(ns Namespace) []string {
	names := make([]string, 0, len(c.elements[ns]))
	for name := range c.elements[ns] {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Build implements Catalog. The output shape is
//
//	<namespace>.<element>({<attr>: <value>, ...}, <children>)
//
// using only required positional and required named conventions: the
// attribute map is always present (possibly empty), and children are an
// array literal unless the source supplied an opaque list expression,
// which is passed through as the second argument unchanged.
func (c *TableCatalog) Build(
	ref AssemblerRef,
	attrs []Attribute,
	children Children,
	loc file.Location,
) ast.Node {
	pairs := make([]ast.Node, 0, len(attrs))

	for _, a := range attrs {
		pair := &ast.PairNode{
			Key:   locate(&ast.StringNode{Value: a.Name}, a.Loc),
			Value: attrValueNode(a.Value),
		}
		pairs = append(pairs, locate(pair, a.Loc))
	}

	call := &ast.CallNode{
		Callee: constructor(ref.NS, ref.Name, loc),
		Arguments: []ast.Node{
			locate(&ast.MapNode{Pairs: pairs}, loc),
			childrenArg(children, loc),
		},
	}

	return locate(call, loc)
}

// Text implements Catalog: string children become markup.text calls.
func (c *TableCatalog) Text(s string, loc file.Location) ast.Node {
	call := &ast.CallNode{
		Callee: constructor(NamespaceMarkup, textConstructor, loc),
		Arguments: []ast.Node{
			locate(&ast.StringNode{Value: s}, loc),
		},
	}

	return locate(call, loc)
}

// List implements Catalog: fragments become markup.list calls.
func (c *TableCatalog) List(
	children Children,
	loc file.Location,
) ast.Node {
	call := &ast.CallNode{
		Callee: constructor(NamespaceMarkup, listConstructor, loc),
		Arguments: []ast.Node{
			childrenArg(children, loc),
		},
	}

	return locate(call, loc)
}

// constructor builds the callee <namespace>.<name>.
func constructor(ns Namespace, name string, loc file.Location) ast.Node {
	m := &ast.MemberNode{
		Node:     locate(&ast.IdentifierNode{Value: ns.String()}, loc),
		Property: locate(&ast.StringNode{Value: name}, loc),
		Optional: false,
		Method:   false,
	}

	return locate(m, loc)
}

// attrValueNode renders a classified attribute value: literals as string
// constants, antiquotes as the original expression.
func attrValueNode(v Value[string]) ast.Node {
	if v.Kind == KindLiteral {
		return &ast.StringNode{Value: v.Lit}
	}

	return v.Expr
}

// childrenArg renders the children argument, preserving source order.
func childrenArg(children Children, loc file.Location) ast.Node {
	if children.IsOpaque() {
		return children.Expr
	}

	nodes := make([]ast.Node, len(children.Nodes))
	for i, child := range children.Nodes {
		nodes[i] = childNode(child)
	}

	return locate(&ast.ArrayNode{Nodes: nodes}, loc)
}

// locate stamps a source location onto a fabricated node so downstream
// diagnostics point at the original markup.
func locate(n ast.Node, loc file.Location) ast.Node {
	n.SetLocation(loc)

	return n
}
