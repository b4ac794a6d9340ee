package parser

import (
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/markex/markup"
)

// parseMarkup consumes one markup literal at the cursor (the cursor sits
// on '<') and returns its lowered call form, marked for the engine.
func (s *scanner) parseMarkup() (ast.Node, error) {
	s.pos++ // consume '<'

	if s.peek() == '>' {
		s.pos++

		return s.parseFragment()
	}

	if s.peek() == '/' {
		return nil, s.errorf("unexpected closing tag")
	}

	return s.parseElement()
}

// parseFragment consumes fragment children up to the matching </> and
// returns the marked bare child-list form.
func (s *scanner) parseFragment() (ast.Node, error) {
	children, name, err := s.parseChildren()
	if err != nil {
		return nil, err
	}

	if name != "" {
		return nil, s.errorf("fragment closed by named tag")
	}

	arr := &ast.ArrayNode{Nodes: children}
	s.marks.Add(arr)

	return arr, nil
}

// parseElement consumes one element from its tag name through its
// closing form and returns the marked lowered call.
func (s *scanner) parseElement() (ast.Node, error) {
	tag, callee, err := s.parseTag()
	if err != nil {
		return nil, err
	}

	args, err := s.parseAttrs()
	if err != nil {
		return nil, err
	}

	switch s.peek() {
	case '/':
		// Self-closing: no children argument at all.
		s.pos++
		if s.peek() != '>' {
			return nil, s.errorf("malformed self-closing tag")
		}
		s.pos++

	case '>':
		s.pos++

		children, closing, err := s.parseChildren()
		if err != nil {
			return nil, err
		}

		if closing != tag {
			return nil, s.errorf("mismatched closing tag " + closing)
		}

		args = append(args, &ast.PairNode{
			Key:   &ast.StringNode{Value: "children"},
			Value: &ast.ArrayNode{Nodes: children},
		})

	default:
		return nil, s.errorf("malformed tag")
	}

	call := &ast.CallNode{
		Callee:    callee,
		Arguments: append(args, &ast.NilNode{}),
	}
	s.marks.Add(call)

	return call, nil
}

// parseTag consumes a bare or dotted tag name. A dotted name lowers to
// the qualified Namespace.Element.make member chain; a bare name stays a
// plain identifier for catalog-driven resolution.
func (s *scanner) parseTag() (string, ast.Node, error) {
	start := s.pos

	first := s.scanIdent()
	if first == "" {
		return "", nil, s.errorf("expected tag name")
	}

	if s.peek() != '.' {
		return first, &ast.IdentifierNode{Value: first}, nil
	}

	s.pos++

	second := s.scanIdent()
	if second == "" {
		return "", nil, s.errorf("expected element name after namespace")
	}

	callee := &ast.MemberNode{
		Node: &ast.MemberNode{
			Node:     &ast.IdentifierNode{Value: first},
			Property: &ast.StringNode{Value: second},
		},
		Property: &ast.StringNode{Value: markup.MakeSelector},
	}

	return s.src[start:s.pos], callee, nil
}

// parseAttrs consumes the attribute list of an open tag, stopping before
// '>' or the '/' of a self-closing tag.
func (s *scanner) parseAttrs() ([]ast.Node, error) {
	var args []ast.Node

	for {
		s.skipSpace()

		switch c := s.peek(); {
		case c == '>' || c == '/':
			return args, nil

		case c == 0:
			return nil, s.errorf("unterminated tag")

		case isAlpha(c) || c == '?':
			pair, err := s.parseAttr()
			if err != nil {
				return nil, err
			}

			args = append(args, pair)

		default:
			return nil, s.errorf("unexpected character in tag")
		}
	}
}

// parseAttr consumes one name[=value] attribute. A bare name is a
// boolean-true attribute; the optional prefix is carried through for the
// engine to reject.
func (s *scanner) parseAttr() (ast.Node, error) {
	var prefix string
	if s.peek() == '?' {
		prefix = "?"
		s.pos++
	}

	name := s.scanAttrName()
	if name == "" {
		return nil, s.errorf("expected attribute name")
	}

	var value ast.Node = &ast.BoolNode{Value: true}

	if s.peek() == '=' {
		s.pos++

		v, err := s.parseAttrValue()
		if err != nil {
			return nil, err
		}

		value = v
	}

	return &ast.PairNode{
		Key:   &ast.StringNode{Value: prefix + name},
		Value: value,
	}, nil
}

// scanAttrName consumes an attribute identifier, which may contain
// hyphens (aria-label can be written directly).
func (s *scanner) scanAttrName() string {
	start := s.pos
	for s.pos < len(s.src) &&
		(isAlnum(s.src[s.pos]) || s.src[s.pos] == '-') {
		s.pos++
	}

	return s.src[start:s.pos]
}

// parseAttrValue consumes one attribute value: a quoted string literal,
// an {expr} splice, or a bare scalar token handed to the host parser.
func (s *scanner) parseAttrValue() (ast.Node, error) {
	switch c := s.peek(); {
	case c == '"' || c == '\'':
		lit, err := s.scanString()
		if err != nil {
			return nil, err
		}

		return &ast.StringNode{Value: lit.value}, nil

	case c == '{':
		return s.parseSplice()

	default:
		start := s.pos
		for s.pos < len(s.src) && !isSpace(s.src[s.pos]) &&
			s.src[s.pos] != '>' && s.src[s.pos] != '/' {
			s.pos++
		}

		token := s.src[start:s.pos]
		if token == "" {
			return nil, s.errorf("expected attribute value")
		}

		node, err := parseSource(token, s.marks)
		if err != nil {
			return nil, syntaxError(s.src, start, "malformed attribute value")
		}

		return node, nil
	}
}

// parseSplice consumes a {expr} group, parsing its contents as a full
// host expression (which may itself contain markup).
func (s *scanner) parseSplice() (ast.Node, error) {
	start := s.pos

	text, err := s.scanBraced()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, syntaxError(s.src, start, "empty expression splice")
	}

	node, err := parseSource(text, s.marks)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// parseChildren consumes child items up to a closing tag and returns the
// children in source order along with the closing tag's name (empty for
// the fragment terminator </>).
func (s *scanner) parseChildren() ([]ast.Node, string, error) {
	children := []ast.Node{}

	for {
		s.skipSpace()

		switch c := s.peek(); {
		case c == 0:
			return nil, "", s.errorf("unterminated markup")

		case c == '<':
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
				name, err := s.parseClosing()

				return children, name, err
			}

			child, err := s.parseMarkup()
			if err != nil {
				return nil, "", err
			}

			children = append(children, child)

		case c == '"' || c == '\'':
			lit, err := s.scanString()
			if err != nil {
				return nil, "", err
			}

			children = append(children, &ast.StringNode{Value: lit.value})

		case c == '{':
			child, err := s.parseSplice()
			if err != nil {
				return nil, "", err
			}

			children = append(children, child)

		default:
			return nil, "", s.errorf("unexpected character in children")
		}
	}
}

// parseClosing consumes a </tag> or </> terminator and returns the
// closing tag name.
func (s *scanner) parseClosing() (string, error) {
	s.pos += 2 // consume "</"

	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '>' {
		s.pos++
	}

	if s.pos >= len(s.src) {
		return "", syntaxError(s.src, start, "unterminated closing tag")
	}

	name := strings.TrimSpace(s.src[start:s.pos])
	s.pos++ // consume '>'

	return name, nil
}
