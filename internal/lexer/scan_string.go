package lexer

import (
	"ddl/internal/diag"
	"ddl/internal/token"
)

// scanString reads a literal from open to closing. Every byte inside must be
// printable; with escapes, '\' takes the next byte verbatim, which must be
// printable too. On failure the consumed prefix becomes an Other token.
func (lx *Lexer) scanString(open, closing byte, kind token.Kind, escapes bool) token.Kind {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // open

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == closing:
			lx.cursor.Bump()
			return kind
		case !isVisible(b):
			lx.brokenString(start, open)
			return token.Other
		case escapes && b == '\\':
			lx.cursor.Bump()
			if next, ok := lx.cursor.PeekAt(0); !ok || !isVisible(next) {
				lx.brokenString(start, open)
				return token.Other
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	lx.brokenString(start, open)
	return token.Other
}

func (lx *Lexer) brokenString(start Mark, open byte) {
	lx.errorf(diag.LexBrokenString, lx.cursor.SpanFrom(start), "broken %c-string is found", open)
}
