package symbols

import (
	"slices"
	"strings"
	"testing"

	"ddl/internal/diag"
)

func TestDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{"const", "int a = 1; int a = 2;", diag.NamConstDup, "constant name duplication: #a"},
		{"type", "scope s { type T = int; type T = uint; }", diag.NamTypeDup, "type name duplication: #s#T"},
		{"struct", "struct S { int a; } struct S { int b; }", diag.NamStructDup, "structure name duplication: #S"},
		{"field", "struct S { int a; uint a; }", diag.NamFieldDup, "field name duplication: #S#a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := link(t, tt.input)
			if u.ok {
				t.Fatalf("expected an error")
			}
			d := u.bag.Items()[0]
			if d.Code != tt.code || d.Message != tt.msg {
				t.Errorf("got [%s] %s", d.Code.ID(), d.Message)
			}
			if len(d.Notes) != 1 || d.Notes[0].Msg != "previous declaration" {
				t.Errorf("notes = %+v", d.Notes)
			}
		})
	}
}

func TestReopenedScopeSharesMap(t *testing.T) {
	u := link(t, "scope s { int a = 1; } scope s { int b = s#a; }")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	if got := u.refOf(t, "#s#b"); got != "#s#a" {
		t.Errorf("s#a resolved to %s", got)
	}
	if err := u.table.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if len(u.table.Maps) != 2 {
		t.Errorf("maps = %d, want 2", len(u.table.Maps))
	}
}

func TestKindConflicts(t *testing.T) {
	u := link(t, "int a = 1; type a = int; scope b { } int b = 2;")
	got := codes(u.bag)
	want := []diag.Code{diag.NamKindConflict, diag.NamKindConflict}
	if !slices.Equal(got, want) {
		t.Fatalf("codes = %v (%s)", got, summary(u.bag))
	}
	if !u.bag.Contains("same name of different kind") {
		t.Errorf("messages: %s", summary(u.bag))
	}
}

func TestStructAndScopeMayShareName(t *testing.T) {
	u := link(t, "struct S { int x; } scope S { int k = 3; } int v = S#k;")
	if !u.ok {
		t.Fatalf("unexpected errors: %s", summary(u.bag))
	}
	if got := u.refOf(t, "#v"); got != "#S#k" {
		t.Errorf("S#k resolved to %s", got)
	}
}

func TestDuplicatesAreCapped(t *testing.T) {
	var sb strings.Builder
	for range 151 {
		sb.WriteString("int a = 0;\n")
	}
	u := link(t, sb.String())
	if u.ok {
		t.Fatalf("expected errors")
	}
	if u.bag.Len() != diag.DefaultCap {
		t.Errorf("kept %d diagnostics, want %d", u.bag.Len(), diag.DefaultCap)
	}
	if u.bag.ErrorCount() != 150 || !u.bag.TooMany() {
		t.Errorf("errors = %d, too many = %v", u.bag.ErrorCount(), u.bag.TooMany())
	}
}
