package token

import (
	"ddl/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Pos  source.TextPos
	Text string
}

// IsPunct reports whether the token is the one-character symbol c.
func (t Token) IsPunct(c byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == c
}

// IsDots reports whether the token is a run of exactly n dots.
func (t Token) IsDots(n int) bool {
	return t.Kind == Dots && len(t.Text) == n
}

// IsWord reports whether the token is the word w.
func (t Token) IsWord(w string) bool {
	return t.Kind == Word && t.Text == w
}

// Keyword classifies a Word token; non-words yield KwNone.
func (t Token) Keyword() Keyword {
	if t.Kind != Word {
		return KwNone
	}
	kw, _ := LookupKeyword(t.Text)
	return kw
}
