package markup

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/expr-lang/expr/ast"
)

// Namespace identifies which element vocabulary and output API module a
// markup node belongs to. Values are compared directly.
type Namespace int

const (
	// NamespaceMarkup is the generic document vocabulary (div, span, ...).
	NamespaceMarkup Namespace = iota // markup

	// NamespaceVector is the vector-graphics vocabulary (circle, path, ...).
	NamespaceVector // vector
)

// String returns the lower-case namespace token, which doubles as the
// output API module identifier.
func (ns Namespace) String() string {
	switch ns {
	case NamespaceMarkup:
		return "markup"
	case NamespaceVector:
		return "vector"
	default:
		return "unknown"
	}
}

// Identity uniquely identifies a catalog entry: a namespace paired with
// the lower-initial element name.
type Identity struct {
	NS   Namespace
	Name string
}

// MakeSelector is the constructor selector that terminates a qualified
// tag reference, e.g. Markup.Div.make.
const MakeSelector = "make"

// parseNamespaceToken matches a qualified tag's module identifier against
// the two namespace tokens, case-insensitively.
func parseNamespaceToken(s string) (Namespace, bool) {
	switch strings.ToLower(s) {
	case NamespaceMarkup.String():
		return NamespaceMarkup, true
	case NamespaceVector.String():
		return NamespaceVector, true
	default:
		return 0, false
	}
}

// lowerInitial forces the first rune of s to lower case. Qualified tag
// references use upper-camel element names; the catalog indexes the
// lower-initial form.
func lowerInitial(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}

// qualifiedTag destructures a Namespace.Element.make member chain into
// its namespace and element name. Returns false for any other shape.
func qualifiedTag(m *ast.MemberNode) (Namespace, string, bool) {
	sel, ok := m.Property.(*ast.StringNode)
	if !ok || sel.Value != MakeSelector {
		return 0, "", false
	}

	inner, ok := m.Node.(*ast.MemberNode)
	if !ok {
		return 0, "", false
	}

	elem, ok := inner.Property.(*ast.StringNode)
	if !ok {
		return 0, "", false
	}

	root, ok := inner.Node.(*ast.IdentifierNode)
	if !ok {
		return 0, "", false
	}

	ns, ok := parseNamespaceToken(root.Value)
	if !ok {
		return 0, "", false
	}

	return ns, elem.Value, true
}

// resolveTag determines the namespace and element identity of a tag
// callee. The hint is the namespace inherited from the nearest enclosing
// resolved node; it acts as the candidate annotation for bare tags.
//
// The returned namespace is what children of the node inherit.
func (e *Engine) resolveTag(
	hint *Namespace,
	callee ast.Node,
) (Namespace, Identity, error) {
	var (
		annotated *Namespace
		name      string
	)

	switch c := callee.(type) {
	case *ast.IdentifierNode:
		name = c.Value
		annotated = hint

	case *ast.MemberNode:
		ns, elem, ok := qualifiedTag(c)
		if !ok {
			return 0, Identity{}, ErrNamespace.
				Wrap(errors.New("malformed tag reference")).
				At(callee)
		}

		annotated = &ns
		name = lowerInitial(elem)

	default:
		return 0, Identity{}, ErrNamespace.
			Wrap(errors.New("malformed tag reference")).
			At(callee)
	}

	_, inMarkup := e.catalog.Find(NamespaceMarkup, name)
	_, inVector := e.catalog.Find(NamespaceVector, name)

	ns, err := disambiguate(name, inMarkup, inVector, annotated)
	if err != nil {
		return 0, Identity{}, WrapError(err).At(callee)
	}

	return ns, Identity{NS: ns, Name: name}, nil
}

// disambiguate selects a namespace from catalog membership and the
// annotation state. It is a pure function of its inputs:
//
//	vector only, unannotated          -> vector
//	vector only, annotated            -> the annotation (annotation wins)
//	markup only, any annotation state -> markup
//	both, annotated                   -> the annotation
//	both, unannotated                 -> markup (in case of doubt)
//	neither                           -> error naming the tag
func disambiguate(
	name string,
	inMarkup, inVector bool,
	annotated *Namespace,
) (Namespace, error) {
	switch {
	case inVector && !inMarkup:
		if annotated != nil {
			return *annotated, nil
		}

		return NamespaceVector, nil

	case inMarkup && !inVector:
		return NamespaceMarkup, nil

	case inMarkup && inVector:
		if annotated != nil {
			return *annotated, nil
		}

		return NamespaceMarkup, nil

	default:
		return 0, ErrNamespace.With(slog.String("tag", name))
	}
}
