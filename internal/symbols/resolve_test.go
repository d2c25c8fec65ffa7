package symbols

import (
	"reflect"
	"slices"
	"testing"

	"ddl/internal/ast"
	"ddl/internal/diag"
)

func TestResolveModes(t *testing.T) {
	u := link(t, `
int x = 1;
scope a {
	int x = 2;
	scope b {
		int rel = x;
		int abs = #x;
		int dots = ..#x;
		int here = .#y;
		int y = 0;
	}
}
`)
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	for name, want := range map[string]string{
		"#a#b#rel":  "#a#x",
		"#a#b#abs":  "#x",
		"#a#b#dots": "#a#x",
		"#a#b#here": "#a#b#y",
	} {
		if got := u.refOf(t, name); got != want {
			t.Errorf("%s -> %s, want %s", name, got, want)
		}
	}
}

func TestResolveThisDoesNotAscend(t *testing.T) {
	u := link(t, "int x = 1; scope a { int r = .#x; }")
	if got := codes(u.bag); !slices.Equal(got, []diag.Code{diag.NamUndefinedName}) {
		t.Errorf("codes = %v (%s)", got, summary(u.bag))
	}
}

func TestResolveRelTriesWholeChain(t *testing.T) {
	u := link(t, `
scope a { scope b { int v = 1; } }
scope c {
	scope a { int w = 0; }
	int z = a#b#v;
}
`)
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	if got := u.refOf(t, "#c#z"); got != "#a#b#v" {
		t.Errorf("a#b#v -> %s", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{"undefined name", "int a = b;", diag.NamUndefinedName, "undefined name: b"},
		{"undefined scope", "int a = s#b;", diag.NamUndefinedScope, "undefined scope: s in s#b"},
		{"name beats scope", "scope s { } int a = s#b;", diag.NamUndefinedName, "undefined name: s#b"},
		{"too many dots", "int x = 1; int a = ...#x;", diag.NamTooManyDots, "undefined name, too many dots: ...#x"},
		{"qname in constant", "int a = ?x;", diag.NamQNameNotAllowed, "QName is not allowed here: ?x"},
		{"qname in type", "?T a;", diag.NamQNameNotAllowed, "QName is not allowed here: ?T"},
		{"const is not a type", "int c = 1; c a;", diag.NamUndefinedName, "undefined name: c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := link(t, tt.input)
			if u.ok || u.bag.Len() != 1 {
				t.Fatalf("diagnostics: %s", summary(u.bag))
			}
			if d := u.bag.Items()[0]; d.Code != tt.code || d.Message != tt.msg {
				t.Errorf("got [%s] %s", d.Code.ID(), d.Message)
			}
		})
	}
}

func TestQNameInFieldDefaultStaysUnbound(t *testing.T) {
	u := link(t, "struct S { int a = ?base; } int base = 1;")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	f := u.b.Field(u.b.Struct(1).Fields[0])
	if e := u.b.Expr(f.Default); e.Const.IsValid() {
		t.Errorf("qname was bound at link time")
	}
}

func TestResolveTypesAndDomains(t *testing.T) {
	u := link(t, "type Id = uint8; struct P { Id a; } P p; Id i = Id(3);")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	p := u.b.Const(u.constIn(t, "#p"))
	if typ := u.b.Type(p.Type); typ.Struct != 1 {
		t.Errorf("P -> %+v", typ)
	}
	i := u.b.Const(u.constIn(t, "#i"))
	if typ := u.b.Type(i.Type); typ.Alias != 1 {
		t.Errorf("Id -> %+v", typ)
	}
	if e := u.b.Expr(i.Value); e.Kind != ast.ExprDomain || e.Alias != 1 {
		t.Errorf("Id(3) -> %+v", e)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	u := link(t, "type T = int; scope s { T a = 1; T b = a + s#a; }")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	types := slices.Clone(u.b.Types.Slice())
	exprs := slices.Clone(u.b.Exprs.Slice())

	for i := range u.b.Types.Slice() {
		if !u.rs.ResolveType(ast.TypeID(i + 1)) {
			t.Fatalf("second ResolveType failed")
		}
	}
	for _, c := range u.b.Consts.Slice() {
		if !u.rs.ResolveExpr(c.Value, false) {
			t.Fatalf("second ResolveExpr failed")
		}
	}
	if !reflect.DeepEqual(types, u.b.Types.Slice()) || !reflect.DeepEqual(exprs, u.b.Exprs.Slice()) {
		t.Errorf("second resolution changed the tree")
	}
	if u.rs.Errors() != 0 {
		t.Errorf("resolver errors = %d", u.rs.Errors())
	}
}
