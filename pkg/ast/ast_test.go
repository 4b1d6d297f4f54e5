package ast

import (
	"testing"

	"minipl/interpreter-go/pkg/lexer"
)

func TestTypeOf(t *testing.T) {
	cases := map[string]Node{
		"int":        Num(1),
		"string":     Str("s"),
		"bool":       Bool(true),
		"Identifier": ID("x"),
		"Expression": Bin("+", Num(1), Num(2)),
	}
	for want, node := range cases {
		if got := TypeOf(node); got != want {
			t.Fatalf("TypeOf(%T) = %q, want %q", node, got, want)
		}
	}
	if got := TypeOf(nil); got != "nothing" {
		t.Fatalf("TypeOf(nil) = %q", got)
	}
}

func TestZeroValueAndVariant(t *testing.T) {
	for _, name := range []string{TypeInt, TypeString, TypeBool} {
		zero, ok := ZeroValue(name)
		if !ok {
			t.Fatalf("no zero value for %s", name)
		}
		variant, ok := VariantOf(name)
		if !ok || zero.NodeType() != variant {
			t.Fatalf("zero value of %s has variant %s, want %s", name, zero.NodeType(), variant)
		}
		if TypeOf(zero) != name {
			t.Fatalf("zero value of %s reports type %s", name, TypeOf(zero))
		}
	}
	if _, ok := ZeroValue("float"); ok {
		t.Fatalf("expected no zero value for float")
	}
	if _, ok := VariantOf("float"); ok {
		t.Fatalf("expected no variant for float")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(Num(-42)); got != "-42" {
		t.Fatalf("Format number: %q", got)
	}
	if got := Format(Str("a\nb")); got != "a\nb" {
		t.Fatalf("Format string: %q", got)
	}
	if got := Format(Bool(false)); got != "false" {
		t.Fatalf("Format bool: %q", got)
	}
}

func TestStatementsChain(t *testing.T) {
	if Stmts() != nil {
		t.Fatalf("empty chain should be nil")
	}
	first := PrintStmt(Num(1))
	second := ReadStmt("x")
	list := Stmts(first, second).List()
	if len(list) != 2 || list[0] != Statement(first) || list[1] != Statement(second) {
		t.Fatalf("unexpected chain %v", list)
	}
}

func TestSetToken(t *testing.T) {
	tok := &lexer.Token{Kind: lexer.KindIdentifier, Text: "x", Pos: lexer.Position{Line: 2, Column: 5}}
	id := ID("x")
	SetToken(id, tok)
	if id.Token() != tok {
		t.Fatalf("token not attached")
	}
	if Num(1).Token() != nil {
		t.Fatalf("synthesized nodes carry no token")
	}
}
