package lexer

import (
	"ddl/internal/diag"
	"ddl/internal/token"
)

func (lx *Lexer) scanWord() token.Kind {
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(isLetterDigit)
	if text := lx.cursor.TextFrom(start); hexWord(text) {
		lx.errorf(diag.LexHexWord, lx.cursor.SpanFrom(start), "hex word is found: %s", text)
		return token.Other
	}
	return token.Word
}

// scanQWord reads '?' followed by a word. A '?' without a letter after it is an error.
func (lx *Lexer) scanQWord() token.Kind {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '?'
	if ClassOf(lx.cursor.Peek()) != ClassLetter {
		lx.errorf(diag.LexSingleQMark, lx.cursor.SpanFrom(start), "single ? is found")
		return token.Other
	}
	lx.cursor.BumpWhile(isLetterDigit)
	if text := lx.cursor.TextFrom(start); hexWord(text[1:]) {
		lx.errorf(diag.LexHexWord, lx.cursor.SpanFrom(start), "hex word is found: %s", text)
		return token.Other
	}
	return token.QWord
}
