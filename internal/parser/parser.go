package parser

import (
	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/lexer"
	"ddl/internal/source"
	"ddl/internal/token"
)

// IncludeFunc opens the file named by an include directive of from.
// It reports its own errors and returns nil when the file cannot be used.
type IncludeFunc func(from *source.File, name string, at source.Span) *source.File

type Options struct {
	Reporter diag.Reporter
	Include  IncludeFunc // nil: include directives are errors
}

type Result struct {
	Errors int // parse and lexical errors reported for this file and its includes
}

// Parser хранит состояние разбора одного файла
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	b        *ast.Builder
	opts     Options
	tok      token.Token   // текущий значимый токен
	ahead    []token.Token // заглянутые вперёд токены
	lastSpan source.Span   // span последнего съеденного токена
}

// ParseFile parses file into scope of b. Includes are parsed into the scope
// where the directive appears.
func ParseFile(file *source.File, b *ast.Builder, scope ast.ScopeID, opts Options) Result {
	counter := &errorCounter{next: opts.Reporter}
	opts.Reporter = counter
	p := newParser(file, b, opts)
	p.parseItems(scope, false)
	return Result{Errors: counter.errors}
}

func newParser(file *source.File, b *ast.Builder, opts Options) *Parser {
	p := &Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file: file,
		b:    b,
		opts: opts,
	}
	p.tok = p.fetch()
	return p
}

// errorCounter counts errors on their way to the real reporter.
type errorCounter struct {
	next   diag.Reporter
	errors int
}

func (c *errorCounter) Report(d diag.Diagnostic) {
	if d.Severity >= diag.SevError {
		c.errors++
	}
	if c.next != nil {
		c.next.Report(d)
	}
}

// parseItems reads items until EOF, or until '}' when nested.
func (p *Parser) parseItems(scope ast.ScopeID, nested bool) {
	for {
		switch {
		case p.tok.Kind == token.EOF:
			return
		case nested && p.tok.IsPunct('}'):
			return
		}
		before := p.tok.Span
		if !p.parseItem(scope) {
			p.resync()
		}
		if p.tok.Span == before && p.tok.Kind != token.EOF {
			// ни одного токена не съели, двигаемся вперёд, чтобы не зациклиться
			p.advance()
		}
	}
}

func (p *Parser) parseItem(scope ast.ScopeID) bool {
	switch p.tok.Keyword() {
	case token.KwInclude:
		return p.parseInclude(scope)
	case token.KwType:
		return p.parseAlias(scope)
	case token.KwScope:
		return p.parseScope(scope)
	case token.KwStruct:
		return p.parseStructItem(scope)
	}
	start := p.tok.Span
	typ, ok := p.parseType(scope)
	if !ok {
		return false
	}
	return p.finishConst(scope, typ, start)
}

// parseStructItem reads a struct declaration. When the struct is followed by
// a type suffix or by a constant name, it is the inline type of that constant.
func (p *Parser) parseStructItem(scope ast.ScopeID) bool {
	start := p.tok.Span
	st, ok := p.parseStruct(scope)
	if !ok {
		return false
	}
	if p.tok.IsPunct(';') {
		p.advance()
		return true
	}
	if !p.startsConstAfterStruct() {
		return true
	}
	typ := p.b.NewStructType(scope, st, start.Cover(p.lastSpan))
	if typ, ok = p.parseTypeSuffixes(scope, typ, start); !ok {
		return false
	}
	return p.finishConst(scope, typ, start)
}

func (p *Parser) startsConstAfterStruct() bool {
	switch {
	case p.tok.IsPunct('*'), p.tok.IsPunct('['):
		return true
	case p.tok.Kind == token.Word && p.tok.Keyword() == token.KwNone:
		next := p.peekAt(1)
		return next.IsPunct('=') || next.IsPunct(';')
	}
	return false
}

func (p *Parser) parseInclude(scope ast.ScopeID) bool {
	p.advance() // include
	if p.tok.Kind != token.BString {
		p.err(diag.SynBadInclude, "include expects a <file> name")
		return false
	}
	tok := p.advance()
	p.eat(';')

	if p.opts.Include == nil {
		diag.Errorf(p.opts.Reporter, diag.SynBadInclude, tok.Span, "include is not supported here")
		return true
	}
	name := tok.Text[1 : len(tok.Text)-1]
	if f := p.opts.Include(p.file, name, tok.Span); f != nil {
		sub := newParser(f, p.b, p.opts)
		sub.parseItems(scope, false)
	}
	return true
}

func (p *Parser) parseAlias(scope ast.ScopeID) bool {
	start := p.advance().Span // type
	name, ok := p.expectName()
	if !ok {
		return false
	}
	if !p.expectPunct('=', diag.SynUnexpectedToken, "expected '=' after type name") {
		return false
	}
	typ, ok := p.parseType(scope)
	if !ok {
		return false
	}
	p.b.NewAlias(scope, name, typ, start.Cover(p.lastSpan))
	return p.expectSemicolon()
}

func (p *Parser) parseScope(scope ast.ScopeID) bool {
	start := p.advance().Span // scope
	name, ok := p.expectName()
	if !ok {
		return false
	}
	if !p.expectPunct('{', diag.SynUnexpectedToken, "expected '{' after scope name") {
		return false
	}
	child := p.b.NewScope(scope, name, start.Cover(name.Span))
	p.parseItems(child, true)
	if !p.expectPunct('}', diag.SynUnclosedBrace, "scope is not closed with '}'") {
		return false
	}
	p.eat(';')
	return true
}

// parseStruct reads "struct Name { fields }" and declares it in scope.
func (p *Parser) parseStruct(scope ast.ScopeID) (ast.StructID, bool) {
	start := p.advance().Span // struct
	name, ok := p.expectName()
	if !ok {
		return ast.NoStructID, false
	}
	if !p.expectPunct('{', diag.SynUnexpectedToken, "expected '{' after struct name") {
		return ast.NoStructID, false
	}
	st := p.b.NewStruct(scope, name, start.Cover(name.Span))
	fieldScope := p.b.Struct(st).FieldScope
	for !p.tok.IsPunct('}') && p.tok.Kind != token.EOF {
		before := p.tok.Span
		if !p.parseField(st, fieldScope) {
			p.resync()
		}
		if p.tok.Span == before {
			p.advance()
		}
	}
	if !p.expectPunct('}', diag.SynUnclosedBrace, "struct is not closed with '}'") {
		return st, false
	}
	return st, true
}

func (p *Parser) parseField(st ast.StructID, fieldScope ast.ScopeID) bool {
	start := p.tok.Span
	typ, ok := p.parseType(fieldScope)
	if !ok {
		return false
	}
	name, ok := p.expectName()
	if !ok {
		return false
	}
	def := ast.NoExprID
	if p.tok.IsPunct('=') {
		p.advance()
		if def, ok = p.parseExpr(fieldScope); !ok {
			return false
		}
	}
	p.b.AddField(st, name, typ, def, start.Cover(p.lastSpan))
	return p.expectSemicolon()
}

// finishConst reads "Name [= expr] ;" after the constant type.
func (p *Parser) finishConst(scope ast.ScopeID, typ ast.TypeID, start source.Span) bool {
	name, ok := p.expectName()
	if !ok {
		return false
	}
	value := ast.NoExprID
	if p.tok.IsPunct('=') {
		p.advance()
		if value, ok = p.parseExpr(scope); !ok {
			return false
		}
	}
	p.b.NewConst(scope, name, typ, value, start.Cover(p.lastSpan))
	return p.expectSemicolon()
}
