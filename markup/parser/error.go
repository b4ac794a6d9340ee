package parser

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/markex/markup"
)

// ErrSyntax reports malformed markup notation in source text. Like the
// engine's diagnostics it is fatal for the containing unit.
var ErrSyntax = markup.NewError("malformed markup syntax")

// syntaxError builds an ErrSyntax carrying the byte offset and the
// line/column it resolves to in src.
func syntaxError(src string, pos int, msg string) error {
	line, col := position(src, pos)

	return ErrSyntax.
		Wrap(errors.New(msg)).
		With(
			slog.Int("offset", pos),
			slog.Int("line", line),
			slog.Int("column", col),
		)
}

// position converts a byte offset into 1-based line and column numbers.
func position(src string, pos int) (line, col int) {
	if pos > len(src) {
		pos = len(src)
	}

	before := src[:pos]
	line = strings.Count(before, "\n") + 1

	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		col = pos - i
	} else {
		col = pos + 1
	}

	return line, col
}
