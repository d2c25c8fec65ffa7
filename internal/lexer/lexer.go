package lexer

import (
	"unicode/utf8"

	"ddl/internal/diag"
	"ddl/internal/source"
	"ddl/internal/token"
)

type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	pos     source.TextPos
	afterCR bool // последний символ был '\r': следующий '\n' не начинает новую строку
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		pos:    source.TextPos{Line: 1, Col: 1},
	}
}

// Next returns exactly one token, spaces and comments included.
// After the end of input it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.cursor.SpanFrom(lx.cursor.Mark()),
			Pos:  lx.pos,
		}
	}

	start := lx.cursor.Mark()
	var kind token.Kind

	switch ClassOf(lx.cursor.Peek()) {
	case ClassDigit:
		kind = lx.scanNumber()
	case ClassLetter:
		kind = lx.scanWord()
	case ClassQMark:
		kind = lx.scanQWord()
	case ClassPunct:
		kind = lx.scanPunct()
	case ClassSpace:
		lx.cursor.BumpWhile(isSpace)
		kind = token.Space
	default:
		kind = lx.scanOther()
	}

	tok := token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Pos:  lx.pos,
		Text: lx.cursor.TextFrom(start),
	}
	lx.advance(tok.Text)
	return tok
}

// NextSignificant skips spaces and comments.
func (lx *Lexer) NextSignificant() token.Token {
	for {
		tok := lx.Next()
		if !tok.Kind.IsTrivia() {
			return tok
		}
	}
}

// Pos returns the position of the next token.
func (lx *Lexer) Pos() source.TextPos {
	return lx.pos
}

// advance moves the position tracker over text.
// '\r', '\n' and "\r\n" each count as one line break.
func (lx *Lexer) advance(text string) {
	for i := 0; i < len(text); i++ {
		switch b := text[i]; {
		case b == '\n' && lx.afterCR:
			lx.afterCR = false
		case b == '\r' || b == '\n':
			lx.pos.Line++
			lx.pos.Col = 1
			lx.afterCR = b == '\r'
		case b >= 0x80 && b < 0xC0:
			// continuation byte of a UTF-8 sequence
			lx.afterCR = false
		default:
			lx.pos.Col++
			lx.afterCR = false
		}
	}
}

func (lx *Lexer) scanOther() token.Kind {
	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '\'':
		return lx.scanString('\'', '\'', token.SString, false)
	case '"':
		return lx.scanString('"', '"', token.DString, true)
	case '<':
		return lx.scanString('<', '>', token.BString, false)
	}

	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	for range sz {
		lx.cursor.Bump()
	}
	lx.errorf(diag.LexIllegalChar, lx.cursor.SpanFrom(start), "illegal char is found: %q", lx.cursor.TextFrom(start))
	return token.Other
}

// Tokens runs a lexer over the whole file and collects every token except EOF.
func Tokens(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}
