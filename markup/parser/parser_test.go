package parser

import (
	"errors"
	"testing"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/markex/markup"
)

// lowered destructures a lowered element call into its labeled argument
// pairs, checking the trailing unit sentinel.
func lowered(t *testing.T, node ast.Node) (*ast.CallNode, map[string]ast.Node) {
	t.Helper()

	call, ok := node.(*ast.CallNode)
	if !ok {
		t.Fatalf("expected call node, got %T", node)
	}

	if len(call.Arguments) == 0 {
		t.Fatal("expected at least the unit sentinel argument")
	}

	last := call.Arguments[len(call.Arguments)-1]
	if _, ok := last.(*ast.NilNode); !ok {
		t.Fatalf("expected trailing unit sentinel, got %T", last)
	}

	labels := make(map[string]ast.Node)
	for _, arg := range call.Arguments[:len(call.Arguments)-1] {
		pair, ok := arg.(*ast.PairNode)
		if !ok {
			t.Fatalf("expected labeled argument, got %T", arg)
		}

		key := pair.Key.(*ast.StringNode)
		labels[key.Value] = pair.Value
	}

	return call, labels
}

func TestParseExpression_PlainHostExpression(t *testing.T) {
	node, marks, err := ParseExpression("1 + 2 * x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := node.(*ast.BinaryNode); !ok {
		t.Fatalf("expected binary node, got %T", node)
	}
	if len(marks) != 0 {
		t.Errorf("expected no marks, got %d", len(marks))
	}
}

func TestParseExpression_Element(t *testing.T) {
	node, marks, err := ParseExpression(
		`<div className="box">"hi"{x}</div>`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, labels := lowered(t, node)

	if !marks.Has(call) {
		t.Error("expected element call to be marked")
	}

	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || callee.Value != "div" {
		t.Fatalf("expected bare div callee, got %v", call.Callee)
	}

	attr, ok := labels["className"].(*ast.StringNode)
	if !ok || attr.Value != "box" {
		t.Errorf("expected className=%q, got %v", "box", labels["className"])
	}

	children, ok := labels["children"].(*ast.ArrayNode)
	if !ok {
		t.Fatalf("expected children list, got %T", labels["children"])
	}
	if len(children.Nodes) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children.Nodes))
	}

	if s, ok := children.Nodes[0].(*ast.StringNode); !ok || s.Value != "hi" {
		t.Errorf("expected text child %q, got %v", "hi", children.Nodes[0])
	}
	if id, ok := children.Nodes[1].(*ast.IdentifierNode); !ok ||
		id.Value != "x" {
		t.Errorf("expected splice child x, got %v", children.Nodes[1])
	}
}

func TestParseExpression_SelfClosing(t *testing.T) {
	node, marks, err := ParseExpression(`<br/>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, labels := lowered(t, node)
	if !marks.Has(call) {
		t.Error("expected element call to be marked")
	}

	if _, ok := labels["children"]; ok {
		t.Error("self-closing element must not carry a children argument")
	}
}

func TestParseExpression_EmptyElement(t *testing.T) {
	node, _, err := ParseExpression(`<div></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, labels := lowered(t, node)

	children, ok := labels["children"].(*ast.ArrayNode)
	if !ok {
		t.Fatalf("expected children list, got %T", labels["children"])
	}
	if len(children.Nodes) != 0 {
		t.Errorf("expected empty children, got %d", len(children.Nodes))
	}
}

func TestParseExpression_Fragment(t *testing.T) {
	node, marks, err := ParseExpression(`<>"a"<br/></>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := node.(*ast.ArrayNode)
	if !ok {
		t.Fatalf("expected array node, got %T", node)
	}
	if !marks.Has(arr) {
		t.Error("expected fragment to be marked")
	}
	if len(arr.Nodes) != 2 {
		t.Fatalf("expected 2 children, got %d", len(arr.Nodes))
	}

	nested, ok := arr.Nodes[1].(*ast.CallNode)
	if !ok || !marks.Has(nested) {
		t.Errorf("expected marked nested element, got %v", arr.Nodes[1])
	}
}

func TestParseExpression_EmptyFragment(t *testing.T) {
	node, _, err := ParseExpression(`<></>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := node.(*ast.ArrayNode)
	if !ok {
		t.Fatalf("expected array node, got %T", node)
	}
	if len(arr.Nodes) != 0 {
		t.Errorf("expected empty fragment, got %d children", len(arr.Nodes))
	}
}

func TestParseExpression_QualifiedTag(t *testing.T) {
	node, _, err := ParseExpression(`<Vector.Circle r={radius}/>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, labels := lowered(t, node)

	member, ok := call.Callee.(*ast.MemberNode)
	if !ok {
		t.Fatalf("expected qualified callee, got %T", call.Callee)
	}

	sel := member.Property.(*ast.StringNode)
	if sel.Value != markup.MakeSelector {
		t.Errorf("expected %q selector, got %q", markup.MakeSelector, sel.Value)
	}

	inner := member.Node.(*ast.MemberNode)
	if root := inner.Node.(*ast.IdentifierNode); root.Value != "Vector" {
		t.Errorf("expected Vector root, got %q", root.Value)
	}
	if elem := inner.Property.(*ast.StringNode); elem.Value != "Circle" {
		t.Errorf("expected Circle element, got %q", elem.Value)
	}

	if id, ok := labels["r"].(*ast.IdentifierNode); !ok ||
		id.Value != "radius" {
		t.Errorf("expected spliced radius value, got %v", labels["r"])
	}
}

func TestParseExpression_AttributeForms(t *testing.T) {
	node, _, err := ParseExpression(
		`<input type_="text" disabled tabindex=3 ?hidden={h}/>`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, labels := lowered(t, node)

	if s, ok := labels["type_"].(*ast.StringNode); !ok || s.Value != "text" {
		t.Errorf("expected string attribute, got %v", labels["type_"])
	}
	if b, ok := labels["disabled"].(*ast.BoolNode); !ok || !b.Value {
		t.Errorf("expected bare attribute lowered to true, got %v",
			labels["disabled"])
	}
	if n, ok := labels["tabindex"].(*ast.IntegerNode); !ok || n.Value != 3 {
		t.Errorf("expected integer attribute, got %v", labels["tabindex"])
	}
	if _, ok := labels["?hidden"]; !ok {
		t.Error("expected optional label carried through for the engine")
	}
}

func TestParseExpression_MarkupInsideHostExpression(t *testing.T) {
	node, marks, err := ParseExpression(`cond ? <br/> : fallback`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond, ok := node.(*ast.ConditionalNode)
	if !ok {
		t.Fatalf("expected conditional node, got %T", node)
	}

	call, ok := cond.Exp1.(*ast.CallNode)
	if !ok || !marks.Has(call) {
		t.Errorf("expected marked markup consequent, got %v", cond.Exp1)
	}
	if id, ok := cond.Exp2.(*ast.IdentifierNode); !ok ||
		id.Value != "fallback" {
		t.Errorf("expected untouched alternative, got %v", cond.Exp2)
	}
}

func TestParseExpression_MarkupInsideSplice(t *testing.T) {
	node, marks, err := ParseExpression(`<div>{wrap(<br/>)}</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, labels := lowered(t, node)
	children := labels["children"].(*ast.ArrayNode)

	wrap, ok := children.Nodes[0].(*ast.CallNode)
	if !ok {
		t.Fatalf("expected spliced call, got %T", children.Nodes[0])
	}

	inner, ok := wrap.Arguments[0].(*ast.CallNode)
	if !ok || !marks.Has(inner) {
		t.Errorf("expected marked markup inside splice, got %v",
			wrap.Arguments[0])
	}
}

func TestParseExpression_LessThanIsNotMarkup(t *testing.T) {
	node, marks, err := ParseExpression(`a < b`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bin, ok := node.(*ast.BinaryNode)
	if !ok || bin.Operator != "<" {
		t.Fatalf("expected comparison, got %v", node)
	}
	if len(marks) != 0 {
		t.Errorf("expected no marks, got %d", len(marks))
	}
}

func TestParseExpression_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated tag", `<div`},
		{"mismatched closing tag", `<div>"x"</span>`},
		{"unterminated splice", `<div>{x</div>`},
		{"unterminated string child", `<div>"x</div>`},
		{"raw text child", `<div>plain</div>`},
		{"stray closing tag", `(</div>)`},
		{"empty splice", `<div>{ }</div>`},
		{"malformed self closing", `<br/x>`},
		{"fragment closed by named tag", `<>"x"</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseExpression(tt.src)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected syntax error, got %v", err)
			}
		})
	}
}

func TestParseExpression_HostParseErrorPropagates(t *testing.T) {
	_, _, err := ParseExpression(`1 + `)
	if err == nil {
		t.Fatal("expected host parse error")
	}
}

func TestParseModule(t *testing.T) {
	src := `#markup true

header := <h1>"Title"</h1>

#markup false

1 + 2
`

	mod, marks, err := ParseModule(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mod.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(mod.Items))
	}

	dir, ok := mod.Items[0].(*markup.Directive)
	if !ok || dir.Name != "markup" {
		t.Fatalf("expected markup directive, got %+v", mod.Items[0])
	}
	if b, ok := dir.Value.(*ast.BoolNode); !ok || !b.Value {
		t.Errorf("expected true payload, got %v", dir.Value)
	}

	bind, ok := mod.Items[1].(*markup.Binding)
	if !ok || bind.Name != "header" {
		t.Fatalf("expected named binding, got %+v", mod.Items[1])
	}
	if !marks.Has(bind.Expr) {
		t.Error("expected binding expression to be marked")
	}

	off, ok := mod.Items[2].(*markup.Directive)
	if !ok || off.Name != "markup" {
		t.Fatalf("expected second directive, got %+v", mod.Items[2])
	}
	if b, ok := off.Value.(*ast.BoolNode); !ok || b.Value {
		t.Errorf("expected false payload, got %v", off.Value)
	}

	bare, ok := mod.Items[3].(*markup.Binding)
	if !ok || bare.Name != "" {
		t.Fatalf("expected bare expression binding, got %+v", mod.Items[3])
	}
	if _, ok := bare.Expr.(*ast.BinaryNode); !ok {
		t.Errorf("expected binary expression, got %T", bare.Expr)
	}
}

func TestParseModule_MultiLineBinding(t *testing.T) {
	src := `view := <div>
  "line one"
  <br/>
</div>`

	mod, _, err := ParseModule(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mod.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(mod.Items))
	}

	bind := mod.Items[0].(*markup.Binding)
	if bind.Name != "view" {
		t.Errorf("expected binding name view, got %q", bind.Name)
	}

	_, labels := lowered(t, bind.Expr)
	children := labels["children"].(*ast.ArrayNode)
	if len(children.Nodes) != 2 {
		t.Errorf("expected 2 children, got %d", len(children.Nodes))
	}
}

func TestParseModule_DirectiveWithoutPayload(t *testing.T) {
	mod, _, err := ParseModule("#markup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := mod.Items[0].(*markup.Directive)
	if _, ok := dir.Value.(*ast.NilNode); !ok {
		t.Errorf("expected nil payload, got %T", dir.Value)
	}
}

func TestParseModule_ColonEqualsInsideExpression(t *testing.T) {
	// A ':=' that is not a leading binding form must not be split.
	mod, _, err := ParseModule(`"a := b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bind := mod.Items[0].(*markup.Binding)
	if bind.Name != "" {
		t.Errorf("expected bare binding, got name %q", bind.Name)
	}
	if s, ok := bind.Expr.(*ast.StringNode); !ok || s.Value != "a := b" {
		t.Errorf("expected string literal, got %v", bind.Expr)
	}
}

func TestParseThenTransform(t *testing.T) {
	node, marks, err := ParseExpression(
		`<div className="card"><Vector.Svg><circle r={r}/></Vector.Svg></div>`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := markup.NewEngine(markup.DefaultCatalog(), markup.WithMarks(marks))
	if err := e.Rewrite(&node); err != nil {
		t.Fatalf("unexpected transform error: %v", err)
	}

	call, ok := node.(*ast.CallNode)
	if !ok {
		t.Fatalf("expected constructor call, got %T", node)
	}

	member := call.Callee.(*ast.MemberNode)
	if root := member.Node.(*ast.IdentifierNode); root.Value != "markup" {
		t.Errorf("expected markup constructor module, got %q", root.Value)
	}
	if prop := member.Property.(*ast.StringNode); prop.Value != "div" {
		t.Errorf("expected div constructor, got %q", prop.Value)
	}
}

// constructorOf returns the ns.name of a built constructor call, or ""
// when the node is not one.
func constructorOf(n ast.Node) string {
	call, ok := n.(*ast.CallNode)
	if !ok {
		return ""
	}

	member, ok := call.Callee.(*ast.MemberNode)
	if !ok {
		return ""
	}

	root, ok := member.Node.(*ast.IdentifierNode)
	if !ok {
		return ""
	}

	prop, ok := member.Property.(*ast.StringNode)
	if !ok {
		return ""
	}

	return root.Value + "." + prop.Value
}

func TestParseThenTransform_InsidePredicate(t *testing.T) {
	node, marks, err := ParseExpression(`map(xs, <div/>)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := markup.NewEngine(markup.DefaultCatalog(), markup.WithMarks(marks))
	if err := e.Rewrite(&node); err != nil {
		t.Fatalf("unexpected transform error: %v", err)
	}

	builtin, ok := node.(*ast.BuiltinNode)
	if !ok {
		t.Fatalf("expected builtin node, got %T", node)
	}

	closure, ok := builtin.Arguments[1].(*ast.PredicateNode)
	if !ok {
		t.Fatalf("expected closure argument, got %T", builtin.Arguments[1])
	}

	if got := constructorOf(closure.Node); got != "markup.div" {
		t.Errorf("predicate body = %v, want markup.div constructor",
			closure.Node)
	}
}

func TestParseThenTransform_InsideAttributeSplice(t *testing.T) {
	node, marks, err := ParseExpression(`<div title={<b>"x"</b>}>"hi"</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := markup.NewEngine(markup.DefaultCatalog(), markup.WithMarks(marks))
	if err := e.Rewrite(&node); err != nil {
		t.Fatalf("unexpected transform error: %v", err)
	}

	if got := constructorOf(node); got != "markup.div" {
		t.Fatalf("expected markup.div constructor, got %v", node)
	}

	attrs, ok := node.(*ast.CallNode).Arguments[0].(*ast.MapNode)
	if !ok || len(attrs.Pairs) != 1 {
		t.Fatalf("expected single-entry attribute map, got %v", attrs)
	}

	pair := attrs.Pairs[0].(*ast.PairNode)
	if got := constructorOf(pair.Value); got != "markup.b" {
		t.Errorf("attribute value = %v, want markup.b constructor",
			pair.Value)
	}
}
