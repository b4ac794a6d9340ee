package parser

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/markex/markup"
)

// scanner walks source text once, copying host-language syntax through
// verbatim and excising each embedded markup region. Every excised
// region is parsed into its lowered call form, registered in the marker
// set, and stood in for by a fresh placeholder identifier so the
// remaining text stays parseable by the host grammar.
type scanner struct {
	src     string
	pos     int
	marks   markup.Marks
	prefix  string
	regions map[string]ast.Node
	serial  int
}

func newScanner(src string, marks markup.Marks) *scanner {
	return &scanner{
		src:     src,
		marks:   marks,
		prefix:  placeholderPrefix(src),
		regions: make(map[string]ast.Node),
	}
}

// placeholderPrefix derives an identifier prefix guaranteed absent from
// the source, so placeholders cannot capture user identifiers.
func placeholderPrefix(src string) string {
	prefix := "__mx_"
	for strings.Contains(src, prefix) {
		prefix = "_" + prefix
	}

	return prefix
}

// placeholder registers one excised markup node and returns the
// identifier standing in for it.
func (s *scanner) placeholder(node ast.Node) string {
	name := s.prefix + strconv.Itoa(s.serial)
	s.serial++
	s.regions[name] = node

	return name
}

// rewrite produces the host-parseable text with every markup region
// replaced by its placeholder.
func (s *scanner) rewrite() (string, error) {
	var out strings.Builder

	// lastSig is the most recent significant byte copied through; zero
	// means none yet. It decides whether '<' sits in operand position.
	var lastSig byte

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '"' || c == '\'':
			lit, err := s.scanString()
			if err != nil {
				return "", err
			}

			out.WriteString(lit.raw)
			lastSig = 'a'

		case c == '<' && operandPosition(lastSig) && s.startsTag():
			node, err := s.parseMarkup()
			if err != nil {
				return "", err
			}

			out.WriteString(s.placeholder(node))
			lastSig = 'a'

		default:
			out.WriteByte(c)
			s.pos++

			if !isSpace(c) {
				lastSig = c
			}
		}
	}

	return out.String(), nil
}

// operandPosition reports whether a '<' following the given significant
// byte begins an operand (markup) rather than a comparison operator.
func operandPosition(b byte) bool {
	return b == 0 || strings.IndexByte("(,[{=<>!&|?+-*/%:;", b) >= 0
}

// startsTag reports whether the '<' at the cursor opens markup: a tag
// name must follow immediately, or '>' for a fragment, or '/' for a
// closing tag (the caller decides whether one is legal here).
func (s *scanner) startsTag() bool {
	if s.pos+1 >= len(s.src) {
		return false
	}

	c := s.src[s.pos+1]

	return isAlpha(c) || c == '>' || c == '/'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || c >= '0' && c <= '9' || c == '_'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}

	return s.src[s.pos]
}

func (s *scanner) errorf(msg string) error {
	return syntaxError(s.src, s.pos, msg)
}

// scanIdent consumes an identifier at the cursor. An empty result means
// the cursor does not sit on one.
func (s *scanner) scanIdent() string {
	start := s.pos
	for s.pos < len(s.src) && isAlnum(s.src[s.pos]) {
		s.pos++
	}

	return s.src[start:s.pos]
}

// stringLit is one scanned string literal: the raw source spelling and
// the unescaped value.
type stringLit struct {
	raw   string
	value string
}

// scanString consumes a single- or double-quoted string literal,
// handling backslash escapes.
func (s *scanner) scanString() (stringLit, error) {
	start := s.pos
	quote := s.src[s.pos]
	s.pos++

	var value strings.Builder

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch c {
		case quote:
			s.pos++

			return stringLit{
				raw:   s.src[start:s.pos],
				value: value.String(),
			}, nil

		case '\\':
			if s.pos+1 >= len(s.src) {
				return stringLit{}, s.errorf("unterminated string literal")
			}

			value.WriteString(unescape(s.src[s.pos+1]))
			s.pos += 2

		default:
			value.WriteByte(c)
			s.pos++
		}
	}

	return stringLit{}, syntaxError(s.src, start, "unterminated string literal")
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	default:
		return string(c)
	}
}

// scanBraced consumes a {...} group at the cursor and returns the text
// between the braces. Nested braces and string literals are respected.
func (s *scanner) scanBraced() (string, error) {
	start := s.pos
	s.pos++ // consume '{'

	depth := 1
	begin := s.pos

	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '"', '\'':
			if _, err := s.scanString(); err != nil {
				return "", err
			}

			continue

		case '{':
			depth++

		case '}':
			depth--
			if depth == 0 {
				text := s.src[begin:s.pos]
				s.pos++

				return text, nil
			}
		}

		s.pos++
	}

	return "", syntaxError(s.src, start, "unterminated expression splice")
}
