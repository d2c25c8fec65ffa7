package parser

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
	"ddl/internal/token"
)

var baseKinds = map[token.Keyword]ast.BaseKind{
	token.KwInt:    ast.BaseSint,
	token.KwSint:   ast.BaseSint,
	token.KwUint:   ast.BaseUint,
	token.KwUlen:   ast.BaseUlen,
	token.KwSint8:  ast.BaseSint8,
	token.KwUint8:  ast.BaseUint8,
	token.KwSint16: ast.BaseSint16,
	token.KwUint16: ast.BaseUint16,
	token.KwSint32: ast.BaseSint32,
	token.KwUint32: ast.BaseUint32,
	token.KwSint64: ast.BaseSint64,
	token.KwUint64: ast.BaseUint64,
	token.KwText:   ast.BaseText,
	token.KwIP:     ast.BaseIP,
}

// parseType reads a primary type and its suffixes.
func (p *Parser) parseType(scope ast.ScopeID) (ast.TypeID, bool) {
	start := p.tok.Span
	prim, ok := p.parsePrimType(scope)
	if !ok {
		return ast.NoTypeID, false
	}
	return p.parseTypeSuffixes(scope, prim, start)
}

// parseTypeSuffixes applies "*", "[]" and "[len]" left to right.
func (p *Parser) parseTypeSuffixes(scope ast.ScopeID, typ ast.TypeID, start source.Span) (ast.TypeID, bool) {
	for {
		switch {
		case p.tok.IsPunct('*'):
			p.advance()
			typ = p.b.NewPtrType(scope, typ, start.Cover(p.lastSpan))
		case p.tok.IsPunct('['):
			p.advance()
			if p.eat(']') {
				typ = p.b.NewArrayType(scope, typ, start.Cover(p.lastSpan))
				continue
			}
			length, ok := p.parseExpr(scope)
			if !ok {
				return ast.NoTypeID, false
			}
			if !p.expectPunct(']', diag.SynUnclosedBrace, "expected ']' after array length") {
				return ast.NoTypeID, false
			}
			typ = p.b.NewArrayLenType(scope, typ, length, start.Cover(p.lastSpan))
		default:
			return typ, true
		}
	}
}

func (p *Parser) parsePrimType(scope ast.ScopeID) (ast.TypeID, bool) {
	start := p.tok.Span
	kw := p.tok.Keyword()
	switch {
	case kw.IsBaseType():
		p.advance()
		return p.b.NewBaseType(scope, baseKinds[kw], start), true

	case kw == token.KwStruct:
		st, ok := p.parseStruct(scope)
		if !ok {
			return ast.NoTypeID, false
		}
		return p.b.NewStructType(scope, st, start.Cover(p.lastSpan)), true

	case p.tok.IsPunct('{'):
		return p.parsePolyPtr(scope)

	case p.startsNameRef():
		ref, ok := p.parseNameRef(scope)
		if !ok {
			return ast.NoTypeID, false
		}
		return p.b.NewRefType(scope, ref, start.Cover(p.lastSpan)), true
	}
	p.err(diag.SynExpectType, "expected a type")
	return ast.NoTypeID, false
}

// parsePolyPtr reads "{T1, T2, ...} *".
func (p *Parser) parsePolyPtr(scope ast.ScopeID) (ast.TypeID, bool) {
	start := p.advance().Span // {
	var list []ast.TypeID
	for {
		typ, ok := p.parseType(scope)
		if !ok {
			return ast.NoTypeID, false
		}
		list = append(list, typ)
		if !p.eat(',') {
			break
		}
	}
	if !p.expectPunct('}', diag.SynUnclosedBrace, "expected '}' after pointer type list") {
		return ast.NoTypeID, false
	}
	if !p.expectPunct('*', diag.SynUnexpectedToken, "expected '*' after pointer type list") {
		return ast.NoTypeID, false
	}
	return p.b.NewPolyPtrType(scope, list, start.Cover(p.lastSpan)), true
}

func (p *Parser) startsNameRef() bool {
	switch p.tok.Kind {
	case token.QWord, token.Dots:
		return true
	case token.Word:
		return p.tok.Keyword() == token.KwNone
	}
	return p.tok.IsPunct('#')
}

// parseNameRef reads [ "#" | dots "#" ] Name { "#" Name } or a qword.
func (p *Parser) parseNameRef(scope ast.ScopeID) (ast.NameRefID, bool) {
	start := p.tok.Span
	ref := ast.NameRef{Scope: scope}

	if p.tok.Kind == token.QWord {
		tok := p.advance()
		ref.QName = true
		ref.Names = []ast.Name{{Text: tok.Text[1:], Span: tok.Span}}
		ref.Span = tok.Span
		return p.b.NewNameRef(ref), true
	}

	switch {
	case p.tok.IsPunct('#'):
		p.advance()
		ref.Mode = ast.RefAbs
	case p.tok.Kind == token.Dots:
		dots := len(p.advance().Text)
		if !p.expectPunct('#', diag.SynUnexpectedToken, "expected '#' after dots") {
			return ast.NoNameRefID, false
		}
		if dots == 1 {
			ref.Mode = ast.RefThis
		} else {
			ref.Mode, ref.Dots = ast.RefDots, dots
		}
	}

	for {
		name, ok := p.expectName()
		if !ok {
			return ast.NoNameRefID, false
		}
		ref.Names = append(ref.Names, name)
		if !p.tok.IsPunct('#') {
			break
		}
		p.advance()
	}
	ref.Span = start.Cover(p.lastSpan)
	return p.b.NewNameRef(ref), true
}
