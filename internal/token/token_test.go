package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	for word, want := range map[string]Keyword{
		"struct": KwStruct,
		"int":    KwInt,
		"uint64": KwUint64,
		"ip":     KwIP,
	} {
		got, ok := LookupKeyword(word)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v, want %v", word, got, ok, want)
		}
	}
	for _, word := range []string{"Struct", "INT", "const", "alias"} {
		if _, ok := LookupKeyword(word); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", word)
		}
	}
	if !KwText.IsBaseType() || KwNull.IsBaseType() {
		t.Fatalf("IsBaseType misclassifies text/null")
	}
}

func TestTokenHelpers(t *testing.T) {
	tok := Token{Kind: Punct, Text: "#"}
	if !tok.IsPunct('#') || tok.IsPunct(';') {
		t.Fatalf("IsPunct wrong for %q", tok.Text)
	}
	if !(Token{Kind: Dots, Text: ".."}).IsDots(2) {
		t.Fatalf("IsDots(2) = false")
	}
	if kw := (Token{Kind: Word, Text: "scope"}).Keyword(); kw != KwScope {
		t.Fatalf("Keyword() = %v, want KwScope", kw)
	}
	if kw := (Token{Kind: QWord, Text: "?scope"}).Keyword(); kw != KwNone {
		t.Fatalf("qword classified as keyword %v", kw)
	}
	if Hex.String() != "hex-number" || Dots.String() != "punct-dots" {
		t.Fatalf("unexpected kind names %q %q", Hex, Dots)
	}
}
