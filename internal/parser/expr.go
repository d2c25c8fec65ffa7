package parser

import (
	"strconv"
	"strings"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/token"
)

// parseExpr reads an additive expression.
func (p *Parser) parseExpr(scope ast.ScopeID) (ast.ExprID, bool) {
	x, ok := p.parseMul(scope)
	for ok {
		var kind ast.ExprKind
		switch {
		case p.tok.IsPunct('+'):
			kind = ast.ExprAdd
		case p.tok.IsPunct('-'):
			kind = ast.ExprSub
		default:
			return x, true
		}
		p.advance()
		var y ast.ExprID
		if y, ok = p.parseMul(scope); ok {
			x = p.binary(kind, scope, x, y)
		}
	}
	return ast.NoExprID, false
}

func (p *Parser) parseMul(scope ast.ScopeID) (ast.ExprID, bool) {
	x, ok := p.parseUnary(scope)
	for ok {
		var kind ast.ExprKind
		switch {
		case p.tok.IsPunct('*'):
			kind = ast.ExprMul
		case p.tok.IsPunct('/'):
			kind = ast.ExprDiv
		case p.tok.IsPunct('%'):
			kind = ast.ExprRem
		default:
			return x, true
		}
		p.advance()
		var y ast.ExprID
		if y, ok = p.parseUnary(scope); ok {
			x = p.binary(kind, scope, x, y)
		}
	}
	return ast.NoExprID, false
}

func (p *Parser) binary(kind ast.ExprKind, scope ast.ScopeID, x, y ast.ExprID) ast.ExprID {
	sp := p.b.Expr(x).Span.Cover(p.b.Expr(y).Span)
	id := p.b.NewExpr(kind, scope, sp)
	e := p.b.Expr(id)
	e.X, e.Y = x, y
	return id
}

var unaryOps = map[byte]ast.ExprKind{
	'+': ast.ExprPlus,
	'-': ast.ExprNeg,
	'&': ast.ExprAddress,
	'*': ast.ExprDeref,
}

func (p *Parser) parseUnary(scope ast.ScopeID) (ast.ExprID, bool) {
	if p.tok.Kind == token.Punct && len(p.tok.Text) == 1 {
		if kind, ok := unaryOps[p.tok.Text[0]]; ok {
			start := p.advance().Span
			x, ok := p.parseUnary(scope)
			if !ok {
				return ast.NoExprID, false
			}
			id := p.b.NewExpr(kind, scope, start.Cover(p.b.Expr(x).Span))
			p.b.Expr(id).X = x
			return id, true
		}
	}
	return p.parsePostfix(scope)
}

// parsePostfix reads field access, pointer field access and indexing.
func (p *Parser) parsePostfix(scope ast.ScopeID) (ast.ExprID, bool) {
	x, ok := p.parsePrimary(scope)
	if !ok {
		return ast.NoExprID, false
	}
	for {
		start := p.b.Expr(x).Span
		switch {
		case p.tok.IsDots(1) && p.peekAt(1).Kind == token.Word,
			p.tok.Kind == token.Arrow:
			kind := ast.ExprField
			if p.advance().Kind == token.Arrow {
				kind = ast.ExprPtrField
			}
			name, ok := p.expectName()
			if !ok {
				return ast.NoExprID, false
			}
			id := p.b.NewExpr(kind, scope, start.Cover(name.Span))
			e := p.b.Expr(id)
			e.X, e.Name = x, name
			x = id
		case p.tok.IsPunct('['):
			p.advance()
			index, ok := p.parseExpr(scope)
			if !ok {
				return ast.NoExprID, false
			}
			if !p.expectPunct(']', diag.SynUnclosedBrace, "expected ']' after index") {
				return ast.NoExprID, false
			}
			id := p.b.NewExpr(ast.ExprIndex, scope, start.Cover(p.lastSpan))
			e := p.b.Expr(id)
			e.X, e.Y = x, index
			x = id
		default:
			return x, true
		}
	}
}

func (p *Parser) parsePrimary(scope ast.ScopeID) (ast.ExprID, bool) {
	tok := p.tok
	switch {
	case tok.Kind == token.Dec && p.peekAt(1).IsDots(1) && p.peekAt(2).Kind == token.Dec:
		return p.parseIP(scope)

	case tok.Kind.IsNumber():
		p.advance()
		id := p.b.NewExpr(ast.ExprNumber, scope, tok.Span)
		e := p.b.Expr(id)
		switch tok.Kind {
		case token.Bin:
			e.Digits, e.Base = tok.Text[:len(tok.Text)-1], 2
		case token.Hex:
			e.Digits, e.Base = tok.Text[:len(tok.Text)-1], 16
		default:
			e.Digits, e.Base = tok.Text, 10
		}
		return id, true

	case tok.Kind == token.DString || tok.Kind == token.SString:
		p.advance()
		id := p.b.NewExpr(ast.ExprString, scope, tok.Span)
		inner := tok.Text[1 : len(tok.Text)-1]
		if tok.Kind == token.DString {
			inner = decodeEscapes(inner)
		}
		p.b.Expr(id).Text = inner
		return id, true

	case tok.Keyword() == token.KwNull:
		p.advance()
		return p.b.NewExpr(ast.ExprNull, scope, tok.Span), true

	case p.startsNameRef():
		ref, ok := p.parseNameRef(scope)
		if !ok {
			return ast.NoExprID, false
		}
		if !p.tok.IsPunct('(') {
			id := p.b.NewExpr(ast.ExprRef, scope, p.b.NameRef(ref).Span)
			p.b.Expr(id).Ref = ref
			return id, true
		}
		p.advance()
		x, ok := p.parseExpr(scope)
		if !ok {
			return ast.NoExprID, false
		}
		if !p.expectPunct(')', diag.SynUnclosedBrace, "expected ')' after domain value") {
			return ast.NoExprID, false
		}
		id := p.b.NewExpr(ast.ExprDomain, scope, tok.Span.Cover(p.lastSpan))
		e := p.b.Expr(id)
		e.Ref, e.X = ref, x
		return id, true

	case tok.IsPunct('('):
		p.advance()
		x, ok := p.parseExpr(scope)
		if !ok {
			return ast.NoExprID, false
		}
		if !p.expectPunct(')', diag.SynUnclosedBrace, "expected ')'") {
			return ast.NoExprID, false
		}
		return x, true

	case tok.IsPunct('{'):
		return p.parseBraced(scope)
	}
	p.err(diag.SynExpectExpr, "expected an expression")
	return ast.NoExprID, false
}

// parseIP reads four decimal octets separated by single dots.
func (p *Parser) parseIP(scope ast.ScopeID) (ast.ExprID, bool) {
	start := p.tok.Span
	var addr uint32
	bad := false
	for i := range 4 {
		if i > 0 {
			if !p.tok.IsDots(1) {
				p.err(diag.SynBadLiteral, "ip address needs four octets")
				return ast.NoExprID, false
			}
			p.advance()
		}
		if p.tok.Kind != token.Dec {
			p.err(diag.SynBadLiteral, "ip address needs four octets")
			return ast.NoExprID, false
		}
		tok := p.advance()
		octet, err := strconv.ParseUint(tok.Text, 10, 8)
		if err != nil {
			p.errAt(diag.SynBadLiteral, tok.Span, "ip address octet is out of range: "+tok.Text)
			bad = true
		}
		addr = addr<<8 | uint32(octet) // #nosec G115 -- parsed with bitSize 8
	}
	if bad {
		return ast.NoExprID, false
	}
	id := p.b.NewExpr(ast.ExprIP, scope, start.Cover(p.lastSpan))
	p.b.Expr(id).IP = addr
	return id, true
}

// parseBraced reads "{ [init {, init} [,]] }".
func (p *Parser) parseBraced(scope ast.ScopeID) (ast.ExprID, bool) {
	start := p.advance().Span // {
	var items []ast.Init
	for !p.tok.IsPunct('}') {
		var item ast.Init
		if p.tok.IsDots(1) && p.peekAt(1).Kind == token.Word {
			p.advance()
			name, ok := p.expectName()
			if !ok {
				return ast.NoExprID, false
			}
			if !p.expectPunct('=', diag.SynUnexpectedToken, "expected '=' after field name") {
				return ast.NoExprID, false
			}
			item.Named, item.Name = true, name
		}
		value, ok := p.parseExpr(scope)
		if !ok {
			return ast.NoExprID, false
		}
		item.Value = value
		items = append(items, item)
		if !p.eat(',') {
			break
		}
	}
	if !p.expectPunct('}', diag.SynUnclosedBrace, "expected '}' to close the list") {
		return ast.NoExprID, false
	}
	id := p.b.NewExpr(ast.ExprBraced, scope, start.Cover(p.lastSpan))
	p.b.Expr(id).Items = items
	return id, true
}

var escapes = map[byte]byte{
	'b': '\b',
	't': '\t',
	'n': '\n',
	'r': '\r',
	'v': '\v',
	'f': '\f',
}

// decodeEscapes maps \b \t \n \r \v \f; any other escaped byte stands for itself.
func decodeEscapes(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			c = s[i]
			if m, ok := escapes[c]; ok {
				c = m
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
