// Package parser reads source text written in the host expression
// language extended with embedded markup notation.
//
// Markup literals may appear anywhere an operand may appear:
//
//	card := <div className="card">"Title"{body}</div>
//
// Each literal is lowered into the call form the transform engine
// expects, marked in a [markup.Marks] set, and grafted into the host
// syntax tree produced by expr's own parser. Fragments (<>...</>),
// self-closing tags, qualified tags (Vector.Circle), quoted text
// children, and {expr} splices are all recognized.
//
// Module text is a sequence of items separated by blank lines: feature
// directives (#markup true), named bindings (name := expr), and bare
// expressions.
package parser
