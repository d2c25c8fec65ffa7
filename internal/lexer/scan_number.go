package lexer

import (
	"ddl/internal/diag"
	"ddl/internal/token"
)

// scanNumber reads a digit-led run of letters and digits.
// The last character chooses the base: b/B binary, h/H hex, otherwise decimal.
// Malformed runs become Other tokens.
func (lx *Lexer) scanNumber() token.Kind {
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(isLetterDigit)
	text := lx.cursor.TextFrom(start)
	body := text[:len(text)-1]

	switch text[len(text)-1] {
	case 'b', 'B':
		if all(body, isBin) {
			return token.Bin
		}
		lx.errorf(diag.LexBrokenNumber, lx.cursor.SpanFrom(start), "broken bin number is found: %s", text)
	case 'h', 'H':
		if all(body, isHex) {
			return token.Hex
		}
		lx.errorf(diag.LexBrokenNumber, lx.cursor.SpanFrom(start), "broken hex number is found: %s", text)
	default:
		if all(text, isDec) {
			return token.Dec
		}
		if all(text, isHex) {
			lx.errorf(diag.LexHexWord, lx.cursor.SpanFrom(start), "hex word is found: %s, hex numbers need the h suffix", text)
			return token.Other
		}
		lx.errorf(diag.LexBrokenNumber, lx.cursor.SpanFrom(start), "broken dec number is found: %s", text)
	}
	return token.Other
}
