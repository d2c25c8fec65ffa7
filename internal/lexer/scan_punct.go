package lexer

import (
	"ddl/internal/diag"
	"ddl/internal/token"
)

func (lx *Lexer) scanPunct() token.Kind {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Bump()
	b1, _ := lx.cursor.PeekAt(0)

	switch {
	case b0 == '/' && b1 == '/':
		lx.cursor.BumpWhile(func(b byte) bool { return !isEOL(b) })
		return token.ShortComment

	case b0 == '/' && b1 == '*':
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			if lx.cursor.Bump() == '*' && lx.cursor.Eat('/') {
				return token.LongComment
			}
		}
		lx.errorf(diag.LexUnclosedComment, lx.cursor.SpanFrom(start), "long comment is not closed")
		return token.Other

	case b0 == '-' && b1 == '>':
		lx.cursor.Bump()
		return token.Arrow

	case b0 == '.':
		lx.cursor.BumpWhile(func(b byte) bool { return b == '.' })
		return token.Dots
	}
	return token.Punct
}
