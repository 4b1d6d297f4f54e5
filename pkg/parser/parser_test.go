package parser

import (
	"strings"
	"testing"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Statements, *Parser) {
	t.Helper()
	l := lexer.FromString(src)
	l.LexAll()
	if l.Errored() {
		t.Fatalf("unexpected lexical errors: %v", l.Errors())
	}
	p := New(l)
	return p.Parse(), p
}

func mustParse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	prog, p := parseSource(t, src)
	if p.Errored() {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	if prog == nil {
		t.Fatalf("expected a program for %q", src)
	}
	return prog.List()
}

func TestParseDeclarationWithInitializer(t *testing.T) {
	stmts := mustParse(t, "var x : int := 2+3;")
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	decl, ok := stmts[0].(*ast.Declaration)
	if !ok {
		t.Fatalf("expected declaration, got %T", stmts[0])
	}
	if decl.Target.Name != "x" || decl.TypeName.Name != "int" {
		t.Fatalf("unexpected declaration %+v", decl)
	}
	expr, ok := decl.Init.(*ast.Expression)
	if !ok || expr.Tail == nil || expr.Tail.Operator != "+" {
		t.Fatalf("expected binary initializer, got %#v", decl.Init)
	}
	if left, ok := expr.Left.(*ast.Number); !ok || left.Value != 2 {
		t.Fatalf("unexpected left operand %#v", expr.Left)
	}
	if right, ok := expr.Tail.Right.(*ast.Number); !ok || right.Value != 3 {
		t.Fatalf("unexpected right operand %#v", expr.Tail.Right)
	}
	if decl.Token() == nil || decl.Token().Pos.String() != "1:1" {
		t.Fatalf("declaration should carry the var token, got %v", decl.Token())
	}
}

func TestParseDeclarationWithoutInitializer(t *testing.T) {
	stmts := mustParse(t, "var s : string;")
	decl := stmts[0].(*ast.Declaration)
	if decl.Init != nil {
		t.Fatalf("expected no initializer, got %#v", decl.Init)
	}
}

func TestParseAllStatementForms(t *testing.T) {
	src := `
var n : int;
read n;
n := n * 2;
print "n=";
assert (!(n = 0));
for i in 1..n do
	print i;
end for;
`
	stmts := mustParse(t, src)
	want := []ast.NodeType{
		ast.NodeDeclaration,
		ast.NodeRead,
		ast.NodeAssignment,
		ast.NodePrint,
		ast.NodeAssert,
		ast.NodeForLoop,
	}
	if len(stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(stmts))
	}
	for i, stmt := range stmts {
		if stmt.NodeType() != want[i] {
			t.Fatalf("statement %d: got %s, want %s", i, stmt.NodeType(), want[i])
		}
	}

	assert := stmts[4].(*ast.Assert)
	unary, ok := assert.Condition.(*ast.UnaryOperator)
	if !ok || unary.Operator != "!" {
		t.Fatalf("expected unary condition, got %#v", assert.Condition)
	}
	if _, ok := unary.Operand.(*ast.Expression); !ok {
		t.Fatalf("parenthesized operand should be an expression, got %T", unary.Operand)
	}

	loop := stmts[5].(*ast.ForLoop)
	if loop.Control.Name != "i" || len(loop.Body.List()) != 1 {
		t.Fatalf("unexpected loop %+v", loop)
	}
}

func TestParseSkipsComments(t *testing.T) {
	stmts := mustParse(t, "// leading\nprint /* inline /* nested */ */ 1; // trailing")
	if len(stmts) != 1 || stmts[0].NodeType() != ast.NodePrint {
		t.Fatalf("unexpected statements %v", stmts)
	}
}

func TestParseBinaryFormIsFlat(t *testing.T) {
	_, p := parseSource(t, "print 1 + 2 + 3;")
	if !p.Errored() {
		t.Fatalf("expected a syntax error for a chained binary expression")
	}
	stmts := mustParse(t, "print (1 + 2) + 3;")
	expr := stmts[0].(*ast.Print).Value.(*ast.Expression)
	if _, ok := expr.Left.(*ast.Expression); !ok {
		t.Fatalf("expected grouped left operand, got %T", expr.Left)
	}
}

func TestParseEmptyForBodyIsError(t *testing.T) {
	prog, p := parseSource(t, "var i : int;\nfor i in 1..3 do end for;")
	if prog != nil {
		t.Fatalf("expected no program on error")
	}
	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if errs[0].Message != "statement expected in for loop" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
	if got := errs[0].Error(); got != "Parser error at 2:18: statement expected in for loop" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestParseRecoversAtStatementBoundary(t *testing.T) {
	src := "print 1;\nvar : int;\nprint 2;\nx = 3;\nprint 3;"
	prog, p := parseSource(t, src)
	if prog != nil {
		t.Fatalf("expected no program on error")
	}
	errs := p.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	if errs[0].Token == nil || errs[0].Token.Pos.Line != 2 {
		t.Fatalf("first error should be on line 2, got %v", errs[0])
	}
	if !strings.Contains(errs[0].Message, "expected token of type IDENTIFIER") {
		t.Fatalf("unexpected first message %q", errs[0].Message)
	}
	if errs[1].Token == nil || errs[1].Token.Pos.Line != 4 {
		t.Fatalf("second error should be on line 4, got %v", errs[1])
	}
	if !strings.Contains(errs[1].Message, `expected token {SEPARATOR ":="}, got {OPERATOR "="}`) {
		t.Fatalf("unexpected second message %q", errs[1].Message)
	}
}

func TestParseMissingSemicolonAtEndOfFile(t *testing.T) {
	_, p := parseSource(t, "print 1")
	errs := p.Errors()
	if len(errs) != 1 || errs[0].Token != nil {
		t.Fatalf("expected one end-of-file error, got %v", errs)
	}
	if !strings.HasPrefix(errs[0].Error(), "Parser error at <end of file>: expected token") {
		t.Fatalf("unexpected rendering %q", errs[0].Error())
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, p := parseSource(t, "// nothing here")
	if prog != nil || len(p.Errors()) != 1 || p.Errors()[0].Message != "statement expected" {
		t.Fatalf("expected a single 'statement expected' error, got %v", p.Errors())
	}
}

func TestParseLeftoverTokens(t *testing.T) {
	_, p := parseSource(t, "print 1; end for;")
	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if !strings.HasPrefix(errs[0].Message, "unexpected token after program statements") {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestParseOperandExpected(t *testing.T) {
	_, p := parseSource(t, "print ;")
	errs := p.Errors()
	if len(errs) != 1 || !strings.HasPrefix(errs[0].Message, "operand expected") {
		t.Fatalf("unexpected errors %v", errs)
	}
}
