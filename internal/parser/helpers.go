package parser

import (
	"fmt"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
	"ddl/internal/token"
)

// fetch returns the next token for the grammar. Malformed tokens were
// already reported by the lexer and are dropped here.
func (p *Parser) fetch() token.Token {
	for {
		tok := p.lx.NextSignificant()
		if tok.Kind != token.Other {
			return tok
		}
	}
}

// advance consumes the current token and returns it.
func (p *Parser) advance() token.Token {
	tok := p.tok
	if tok.Kind == token.EOF {
		return tok
	}
	p.lastSpan = tok.Span
	if len(p.ahead) > 0 {
		p.tok = p.ahead[0]
		p.ahead = p.ahead[1:]
	} else {
		p.tok = p.fetch()
	}
	return tok
}

// peekAt looks n tokens past the current one; peekAt(0) is the current token.
func (p *Parser) peekAt(n int) token.Token {
	if n == 0 {
		return p.tok
	}
	for len(p.ahead) < n {
		if k := len(p.ahead); k > 0 && p.ahead[k-1].Kind == token.EOF {
			return p.ahead[k-1]
		}
		if p.tok.Kind == token.EOF {
			return p.tok
		}
		p.ahead = append(p.ahead, p.fetch())
	}
	return p.ahead[n-1]
}

// eat consumes the punctuation c when it is next.
func (p *Parser) eat(c byte) bool {
	if p.tok.IsPunct(c) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectPunct(c byte, code diag.Code, msg string) bool {
	if p.eat(c) {
		return true
	}
	p.err(code, msg)
	return false
}

func (p *Parser) expectSemicolon() bool {
	return p.expectPunct(';', diag.SynExpectSemicolon, "expected ';'")
}

// expectName consumes a plain word that is not a keyword.
func (p *Parser) expectName() (ast.Name, bool) {
	if p.tok.Kind != token.Word || p.tok.Keyword() != token.KwNone {
		p.err(diag.SynExpectName, "expected a name")
		return ast.Name{}, false
	}
	tok := p.advance()
	return ast.Name{Text: tok.Text, Span: tok.Span}, true
}

// err reports at the current token, describing what was found.
func (p *Parser) err(code diag.Code, msg string) {
	p.errAt(code, p.diagnosticSpan(), fmt.Sprintf("%s, found %s", msg, describe(p.tok)))
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	diag.Errorf(p.opts.Reporter, code, sp, "%s", msg)
}

// diagnosticSpan points at the current token, or just after the last one at EOF.
func (p *Parser) diagnosticSpan() source.Span {
	if p.tok.Kind == token.EOF && p.lastSpan.File == p.tok.Span.File && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return p.tok.Span
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Word:
		if tok.Keyword() != token.KwNone {
			return fmt.Sprintf("keyword %q", tok.Text)
		}
		return fmt.Sprintf("name %q", tok.Text)
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
}

// resync skips to a likely item boundary: after ';', before '}' or a keyword
// that starts an item.
func (p *Parser) resync() {
	depth := 0
	for p.tok.Kind != token.EOF {
		switch {
		case p.tok.IsPunct(';') && depth == 0:
			p.advance()
			return
		case p.tok.IsPunct('{'):
			depth++
		case p.tok.IsPunct('}'):
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				p.eat(';')
				return
			}
		case depth == 0:
			switch p.tok.Keyword() {
			case token.KwType, token.KwStruct, token.KwScope, token.KwInclude:
				return
			}
		}
		p.advance()
	}
}
