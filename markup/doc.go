// Package markup rewrites embedded markup notation inside expr-lang
// expressions into explicit calls against a typed document-construction
// API with two element namespaces: the generic markup vocabulary and the
// vector-graphics vocabulary.
//
// The surface front-end (package markup/parser) lowers markup like
//
//	<div className="a">"hi"{x}</div>
//
// into a marked call form over the expr syntax tree. The Engine then
// resolves each tag's namespace against the element catalog, normalizes
// attribute names, classifies attributes and children as transform-time
// literals or escaped host expressions, and patches each marked node
// with the equivalent nested construction call:
//
//	markup.div({"class": "a"}, [markup.text("hi"), x])
//
// Unqualified tags are disambiguated by catalog membership and the
// namespace inherited from the nearest enclosing resolved node, which is
// threaded by value through the recursive descent. Qualified tags
// (Markup.Div.make, Vector.Circle.make) annotate the namespace
// explicitly, and the annotation always wins.
//
// Transformation is all-or-nothing per source unit: the first diagnostic
// aborts the run with the offending node's location, and the unit yields
// no output.
package markup
