package markup

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/expr-lang/expr/ast"
)

// childrenLabel is the reserved argument label carrying a node's children.
const childrenLabel = "children"

// optionalPrefix marks a label as optional-labeled in the lowered call
// form. The construction API is total, so these are always rejected.
const optionalPrefix = "?"

// attrAliases maps source-level attribute spellings directly to their
// document form. Exact aliases always win over the prefix rule below.
//
// Trailing-underscore names are language-keyword escapes.
var attrAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
	"type_":     "type",
	"for_":      "for",
	"in_":       "in",
	"open_":     "open",
	"data_":     "data",
}

// attrPrefixes are the recognized prefixes that trigger camelCase to
// kebab-case hyphenation of the remainder.
var attrPrefixes = []string{"aria", "data"}

// NormalizeAttr rewrites a source-level attribute identifier into the
// document API's naming convention. The fixed alias table is consulted
// first; otherwise names longer than five runes starting with a
// recognized prefix have the camel-cased remainder hyphenated
// (ariaLabel -> aria-label). All other names pass through unchanged.
//
// NormalizeAttr is idempotent: the hyphenation rule only fires when the
// remainder begins with an upper-case rune.
func NormalizeAttr(name string) string {
	if alias, ok := attrAliases[name]; ok {
		return alias
	}

	for _, prefix := range attrPrefixes {
		rest := strings.TrimPrefix(name, prefix)
		if rest == name || rest == "" {
			continue
		}

		r := []rune(rest)
		if len(name) > len(prefix)+1 && unicode.IsUpper(r[0]) {
			return prefix + "-" + lowerInitial(rest)
		}
	}

	return name
}

// extractAttrs filters a lowered call's argument list down to its
// attributes, normalizing names and classifying each value as literal or
// antiquote. Markup nested inside a value expression is rewritten before
// classification, the same as child expressions. Argument order is
// preserved.
//
// The trailing unit sentinel and the children label are dropped. Any
// other positional argument, and any optional-labeled argument, is a
// fatal attribute error.
func (e *Engine) extractAttrs(
	args []ast.Node,
	hint *Namespace,
) ([]Attribute, error) {
	var attrs []Attribute

	for _, arg := range args {
		switch a := arg.(type) {
		case *ast.NilNode:
			// Unit sentinel: the API's conventional trailing terminator.
			continue

		case *ast.PairNode:
			label, ok := a.Key.(*ast.StringNode)
			if !ok {
				return nil, ErrAttribute.
					With(slog.String("reason", "non-identifier label")).
					At(arg)
			}

			if rest, opt := strings.CutPrefix(
				label.Value, optionalPrefix,
			); opt {
				return nil, ErrAttribute.
					With(
						slog.String("reason", "optional label"),
						slog.String("attribute", rest),
					).
					At(arg)
			}

			if label.Value == childrenLabel {
				continue
			}

			value, err := e.mapExpr(a.Value, hint)
			if err != nil {
				return nil, err
			}

			attrs = append(attrs, Attribute{
				Name:  NormalizeAttr(label.Value),
				Value: classifyAttr(value),
				Loc:   a.Location(),
			})

		default:
			return nil, ErrAttribute.
				With(slog.String("reason", "stray positional argument")).
				At(arg)
		}
	}

	return attrs, nil
}

// classifyAttr classifies an attribute value: string constants are
// literals, everything else is an escaped host expression.
func classifyAttr(v ast.Node) Value[string] {
	if s, ok := v.(*ast.StringNode); ok {
		return Literal(s.Value)
	}

	return Antiquote[string](v)
}
