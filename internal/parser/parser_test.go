package parser

import (
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
	"ddl/internal/source"
)

func TestParseDeclarations(t *testing.T) {
	b := mustParse(t, `
type Id = uint16;
struct Point { int x; int y = 1; }
scope net {
	ip gw = 10.0.0.1;
	scope inner { Id a; }
}
sint32 total = 3;
`)
	root := b.Scope(b.Root)
	if len(root.Body.Aliases) != 1 || len(root.Body.Structs) != 1 || len(root.Body.Consts) != 1 {
		t.Fatalf("root body = %+v", root.Body)
	}
	// field scope of Point and scope net
	if len(root.Body.Scopes) != 2 {
		t.Fatalf("root scopes = %d, want 2", len(root.Body.Scopes))
	}

	st := b.Struct(root.Body.Structs[0])
	if st.Name.Text != "Point" || len(st.Fields) != 2 {
		t.Fatalf("struct = %+v", st)
	}
	if fs := b.Scope(st.FieldScope); fs.Struct != root.Body.Structs[0] || fs.Name.Text != "Point" {
		t.Errorf("field scope = %+v", fs)
	}
	y := b.Field(st.Fields[1])
	if y.Name.Text != "y" || !y.Default.IsValid() || y.Pos != 1 {
		t.Errorf("field y = %+v", y)
	}

	net := b.Scope(root.Body.Scopes[1])
	gw := constByName(t, b, root.Body.Scopes[1], "gw")
	if e := b.Expr(gw.Value); e.Kind != ast.ExprIP || e.IP != 0x0A000001 {
		t.Errorf("gw = %+v", e)
	}
	inner := net.Body.Scopes[0]
	a := constByName(t, b, inner, "a")
	if a.Value.IsValid() {
		t.Errorf("a has an initializer")
	}
	if got := b.QualifiedName(inner, "a"); got != "#net#inner#a" {
		t.Errorf("QualifiedName = %s", got)
	}

	total := constByName(t, b, b.Root, "total")
	if typ := b.Type(total.Type); typ.Kind != ast.TypeBase || typ.Base != ast.BaseSint32 {
		t.Errorf("total type = %+v", typ)
	}
}

func TestParseIntIsSint(t *testing.T) {
	b := mustParse(t, "int a = 1;")
	a := constByName(t, b, b.Root, "a")
	if got := b.Type(a.Type).Base; got != ast.BaseSint {
		t.Errorf("int parsed as %s", got)
	}
}

func TestParseTypeSuffixes(t *testing.T) {
	b := mustParse(t, "uint8*[][4] p; {S, T}* q; S s;")
	p := constByName(t, b, b.Root, "p")
	typ := b.Type(p.Type)
	if typ.Kind != ast.TypeArrayLen {
		t.Fatalf("p kind = %v", typ.Kind)
	}
	arr := b.Type(typ.Elem)
	if arr.Kind != ast.TypeArray || b.Type(arr.Elem).Kind != ast.TypePtr {
		t.Errorf("p elem = %+v", arr)
	}
	if ln := b.Len(typ.Len); b.Expr(ln.Expr).Digits != "4" {
		t.Errorf("len = %+v", ln)
	}

	q := constByName(t, b, b.Root, "q")
	if typ := b.Type(q.Type); typ.Kind != ast.TypePolyPtr || len(typ.List) != 2 {
		t.Errorf("q type = %+v", typ)
	}
}

func TestParseNameRefModes(t *testing.T) {
	b := mustParse(t, "A#B r = 0; #A a = 0; .#A t = 0; ...#A d = 0;")
	tests := []struct {
		name  string
		mode  ast.RefMode
		dots  int
		names int
	}{
		{"r", ast.RefRel, 0, 2},
		{"a", ast.RefAbs, 0, 1},
		{"t", ast.RefThis, 0, 1},
		{"d", ast.RefDots, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := constByName(t, b, b.Root, tt.name)
			typ := b.Type(c.Type)
			if typ.Kind != ast.TypeRef {
				t.Fatalf("kind = %v", typ.Kind)
			}
			ref := b.NameRef(typ.Ref)
			if ref.Mode != tt.mode || ref.Dots != tt.dots || len(ref.Names) != tt.names {
				t.Errorf("ref %s = %+v", ref.String(), ref)
			}
		})
	}
}

func TestParseQName(t *testing.T) {
	b := mustParse(t, "struct S { int a = ?base + 1; }")
	st := b.Struct(b.Scope(b.Root).Body.Structs[0])
	def := b.Expr(b.Field(st.Fields[0]).Default)
	ref := b.NameRef(b.Expr(def.X).Ref)
	if !ref.QName || ref.Target().Text != "base" {
		t.Errorf("qname = %+v", ref)
	}
}

func TestParsePrecedence(t *testing.T) {
	b := mustParse(t, "int a = 1 + 2 * -3 % 4;")
	e := b.Expr(constByName(t, b, b.Root, "a").Value)
	if e.Kind != ast.ExprAdd {
		t.Fatalf("top = %v", e.Kind)
	}
	rem := b.Expr(e.Y)
	if rem.Kind != ast.ExprRem {
		t.Fatalf("right = %v", rem.Kind)
	}
	mul := b.Expr(rem.X)
	if mul.Kind != ast.ExprMul || b.Expr(mul.Y).Kind != ast.ExprNeg {
		t.Errorf("mul = %+v", mul)
	}
}

func TestParsePostfixAndUnary(t *testing.T) {
	b := mustParse(t, "S* p = &arr[2].next->x; int v = *p;")
	e := b.Expr(constByName(t, b, b.Root, "p").Value)
	if e.Kind != ast.ExprAddress {
		t.Fatalf("top = %v", e.Kind)
	}
	pf := b.Expr(e.X)
	if pf.Kind != ast.ExprPtrField || pf.Name.Text != "x" {
		t.Fatalf("ptr field = %+v", pf)
	}
	f := b.Expr(pf.X)
	if f.Kind != ast.ExprField || f.Name.Text != "next" || b.Expr(f.X).Kind != ast.ExprIndex {
		t.Errorf("field = %+v", f)
	}
	v := b.Expr(constByName(t, b, b.Root, "v").Value)
	if v.Kind != ast.ExprDeref {
		t.Errorf("v = %v", v.Kind)
	}
}

func TestParseLiterals(t *testing.T) {
	b := mustParse(t, `text s = "a\tb\qc"; text r = 'x\ty'; uint h = 1Fh; uint n = 101b; S* z = null;`)
	if got := b.Expr(constByName(t, b, b.Root, "s").Value).Text; got != "a\tbqc" {
		t.Errorf("d-string = %q", got)
	}
	if got := b.Expr(constByName(t, b, b.Root, "r").Value).Text; got != `x\ty` {
		t.Errorf("s-string = %q", got)
	}
	if e := b.Expr(constByName(t, b, b.Root, "h").Value); e.Digits != "1F" || e.Base != 16 {
		t.Errorf("hex = %+v", e)
	}
	if e := b.Expr(constByName(t, b, b.Root, "n").Value); e.Digits != "101" || e.Base != 2 {
		t.Errorf("bin = %+v", e)
	}
	if e := b.Expr(constByName(t, b, b.Root, "z").Value); e.Kind != ast.ExprNull {
		t.Errorf("null = %v", e.Kind)
	}
}

func TestParseBracedAndDomain(t *testing.T) {
	b := mustParse(t, "P p = {1, .y = Id(2), {3},};")
	e := b.Expr(constByName(t, b, b.Root, "p").Value)
	if e.Kind != ast.ExprBraced || len(e.Items) != 3 {
		t.Fatalf("braced = %+v", e)
	}
	if !e.Items[1].Named || e.Items[1].Name.Text != "y" {
		t.Errorf("item 1 = %+v", e.Items[1])
	}
	dom := b.Expr(e.Items[1].Value)
	if dom.Kind != ast.ExprDomain || b.NameRef(dom.Ref).Target().Text != "Id" {
		t.Errorf("domain = %+v", dom)
	}
	if b.Expr(e.Items[2].Value).Kind != ast.ExprBraced {
		t.Errorf("nested list not parsed")
	}
}

func TestParseInlineStruct(t *testing.T) {
	b := mustParse(t, "struct In { int a; } * p; struct Out { struct Sub { int b; } s; }")
	root := b.Scope(b.Root)
	if len(root.Body.Structs) != 2 {
		t.Fatalf("root structs = %d, want 2", len(root.Body.Structs))
	}
	p := constByName(t, b, b.Root, "p")
	ptr := b.Type(p.Type)
	if ptr.Kind != ast.TypePtr || b.Type(ptr.Elem).Kind != ast.TypeStruct {
		t.Errorf("p type = %+v", ptr)
	}
	out := b.Struct(root.Body.Structs[1])
	if subs := b.Scope(out.FieldScope).Body.Structs; len(subs) != 1 || b.Struct(subs[0]).Name.Text != "Sub" {
		t.Errorf("inline struct is not declared in the field scope")
	}
}

func TestParseErrorsRecover(t *testing.T) {
	b, bag := parseSource(t, "int a = ; int b = 2; type = x; int c = 3")
	if bag.ErrorCount() != 3 {
		t.Fatalf("errors = %s", diagnosticsSummary(bag))
	}
	items := bag.Items()
	if items[0].Code != diag.SynExpectExpr || items[1].Code != diag.SynExpectName || items[2].Code != diag.SynExpectSemicolon {
		t.Errorf("codes = %s", diagnosticsSummary(bag))
	}
	constByName(t, b, b.Root, "b")
}

func TestParseBadIP(t *testing.T) {
	_, bag := parseSource(t, "ip a = 10.0.300.1;")
	if !bag.Contains("octet is out of range") {
		t.Errorf("diagnostics = %s", diagnosticsSummary(bag))
	}
}

func TestParseLexErrorsAreNotRepeated(t *testing.T) {
	_, bag := parseSource(t, "int a = 1 é ;")
	if bag.ErrorCount() != 1 || bag.Items()[0].Code != diag.LexIllegalChar {
		t.Errorf("diagnostics = %s", diagnosticsSummary(bag))
	}
}

func TestParseInclude(t *testing.T) {
	fs := source.NewFileSet()
	main := fs.AddVirtual("main.ddl", []byte("scope s { include <part.ddl> } int top = 1;"))
	part := fs.AddVirtual("part.ddl", []byte("int inc = 2;"))

	var requested string
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(0)
	ParseFile(fs.Get(main), b, b.Root, Options{
		Reporter: diag.BagReporter{Bag: bag},
		Include: func(from *source.File, name string, at source.Span) *source.File {
			requested = name
			return fs.Get(part)
		},
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(bag))
	}
	if requested != "part.ddl" {
		t.Errorf("requested %q", requested)
	}
	s := b.Scope(b.Root).Body.Scopes[0]
	c := constByName(t, b, s, "inc")
	if c.Span.File != part {
		t.Errorf("included constant span is in file %d", c.Span.File)
	}
}
