package markup

import (
	"log/slog"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/markex/log"
)

// Marks records which syntax-tree nodes were produced from embedded
// markup notation. The producer (the surface parser, or a test fixture)
// registers nodes by identity; nodes emitted by the transform are never
// marked, so output trees are not re-entered.
type Marks map[ast.Node]struct{}

// Add registers a node as markup-produced.
func (m Marks) Add(n ast.Node) {
	if m != nil && n != nil {
		m[n] = struct{}{}
	}
}

// Has reports whether a node carries the markup marker.
func (m Marks) Has(n ast.Node) bool {
	if m == nil || n == nil {
		return false
	}

	_, ok := m[n]

	return ok
}

// Engine rewrites marked markup nodes within expr syntax trees into
// explicit document-construction calls. One Engine serves one transform
// run over one source module; the inherited-namespace context is
// threaded by value through the recursive descent, so no state leaks
// between sibling transforms.
type Engine struct {
	catalog Catalog
	marks   Marks
	logger  log.Logger
	enabled bool
}

// Option applies a configuration option to an Engine.
type Option func(*Engine)

// WithMarks supplies the marker set identifying markup-produced nodes.
func WithMarks(marks Marks) Option {
	return func(e *Engine) { e.marks = marks }
}

// WithLogger supplies the logger used for transform tracing.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithEnabled sets the initial feature toggle. The feature directive in
// a module overrides it per unit.
func WithEnabled(enabled bool) Option {
	return func(e *Engine) { e.enabled = enabled }
}

// NewEngine creates an Engine over the given element catalog. The
// transform is enabled by default; a module-level feature directive can
// disable it, in which case the engine is an identity transform.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		enabled: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rewrite walks an expression and replaces every marked markup node with
// its document-construction call, preserving all other structure. The
// first fatal diagnostic aborts the walk; the expression is then left in
// an unspecified partially-rewritten state and must be discarded.
func (e *Engine) Rewrite(node *ast.Node) error {
	if !e.enabled {
		return nil
	}

	return e.rewriteSubtree(node, nil)
}

// rewriteSubtree is the recursive expression intercept: marked markup
// shapes are transformed and patched in place, everything else is
// descended into unchanged with the current inherited namespace.
func (e *Engine) rewriteSubtree(node *ast.Node, hint *Namespace) error {
	if node == nil || *node == nil {
		return nil
	}

	if e.marks.Has(*node) {
		out, ok, err := e.transform(*node, hint)
		if err != nil {
			return err
		}

		if ok {
			ast.Patch(node, out)

			return nil
		}
		// Marked but not a markup shape: fall through to the default
		// recursive descent.
	}

	return eachChild(node, func(child *ast.Node) error {
		return e.rewriteSubtree(child, hint)
	})
}

// transform rewrites one marked node. It reports ok=false for marked
// shapes that are not markup (the marker may ride along on unrelated
// constructs); those are handed back to the default descent.
func (e *Engine) transform(
	node ast.Node,
	hint *Namespace,
) (ast.Node, bool, error) {
	switch n := node.(type) {
	case *ast.ArrayNode:
		out, err := e.transformFragment(n, hint)

		return out, err == nil, err

	case *ast.CallNode:
		switch n.Callee.(type) {
		case *ast.IdentifierNode, *ast.MemberNode:
			out, err := e.transformElement(n, hint)

			return out, err == nil, err
		}
	}

	return nil, false, nil
}

// transformFragment wraps a bare child-list fragment as a generic
// namespace list value. Fragments have no element identity, so namespace
// resolution is bypassed and children inherit the unchanged hint.
func (e *Engine) transformFragment(
	arr *ast.ArrayNode,
	hint *Namespace,
) (ast.Node, error) {
	children, err := e.mapChildList(arr, hint)
	if err != nil {
		return nil, err
	}

	e.logger.Trace("transform fragment",
		slog.Int("child_count", len(children.Nodes)))

	return e.catalog.List(children, arr.Location()), nil
}

// transformElement orchestrates one element transform: resolve the
// namespace, extract attributes and children (children inherit the
// resolved namespace), then build the output call at the original source
// location.
func (e *Engine) transformElement(
	call *ast.CallNode,
	hint *Namespace,
) (ast.Node, error) {
	ns, id, err := e.resolveTag(hint, call.Callee)
	if err != nil {
		return nil, err
	}

	attrs, err := e.extractAttrs(call.Arguments, &ns)
	if err != nil {
		return nil, WrapError(err).At(call)
	}

	children, err := e.extractChildren(call.Arguments, &ns)
	if err != nil {
		return nil, err
	}

	ref, ok := e.catalog.Find(id.NS, id.Name)
	if !ok {
		return nil, ErrUnknownElement.
			With(
				slog.String("element", id.Name),
				slog.String("namespace", id.NS.String()),
			).
			At(call)
	}

	e.logger.Trace("transform element",
		slog.String("element", id.Name),
		slog.String("namespace", id.NS.String()),
		slog.Int("attr_count", len(attrs)),
		slog.Int("child_count", len(children.Nodes)))

	return e.catalog.Build(ref, attrs, children, call.Location()), nil
}
