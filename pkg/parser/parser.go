package parser

import (
	"fmt"
	"strconv"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/lexer"
)

// TokenSource yields tokens one at a time; the Lexer implements it.
type TokenSource interface {
	Next() (lexer.Token, bool)
}

// Error is a syntax diagnostic. Token is nil at end of file.
type Error struct {
	Token   *lexer.Token
	Message string
}

func (e *Error) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("Parser error at <end of file>: %s", e.Message)
	}
	return fmt.Sprintf("Parser error at %s: %s", e.Token.Pos, e.Message)
}

// Parser is a recursive-descent parser with one token of lookahead.
// Syntax errors are recorded and parsing resumes after the next ";".
type Parser struct {
	tokens  TokenSource
	current *lexer.Token
	errors  []*Error
}

// New returns a parser pulling from tokens. Comment tokens are skipped.
func New(tokens TokenSource) *Parser {
	return &Parser{tokens: tokens}
}

// Errors returns the syntax diagnostics in the order they were found.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// Errored reports whether any syntax error was recorded.
func (p *Parser) Errored() bool {
	return len(p.errors) > 0
}

// Parse builds the program's statement chain. It returns nil when any
// syntax error was found; the remaining statements are still parsed so
// that every error is reported.
func (p *Parser) Parse() *ast.Statements {
	p.advance()
	program, err := p.program()
	if err == nil {
		return program
	}
	p.fail(err)
	for p.current != nil {
		if _, err := p.statements(); err != nil {
			p.fail(err)
			continue
		}
		if p.current != nil {
			p.fail(p.errorf("unexpected token after program statements, got %s", p.current))
		}
	}
	return nil
}

func (p *Parser) program() (*ast.Statements, *Error) {
	stmts, err := p.statements()
	if err != nil {
		return nil, err
	}
	if stmts == nil {
		return nil, p.errorf("statement expected")
	}
	if p.current != nil {
		return nil, p.errorf("unexpected token after program statements, got %s", p.current)
	}
	return stmts, nil
}

// statements parses `statement ";" [statements]`. It returns nil without
// an error when the current token cannot start a statement.
func (p *Parser) statements() (*ast.Statements, *Error) {
	var head, last *ast.Statements
	for {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return head, nil
		}
		if _, err := p.expect(lexer.KindSeparator, ";"); err != nil {
			return nil, err
		}
		link := ast.NewStatements(stmt, nil)
		ast.SetToken(link, stmt.Token())
		if head == nil {
			head = link
		} else {
			last.Tail = link
		}
		last = link
	}
}

func (p *Parser) statement() (ast.Statement, *Error) {
	if p.current == nil {
		return nil, nil
	}
	switch p.current.Kind {
	case lexer.KindKeyword:
		switch p.current.Text {
		case "read":
			return p.readStatement()
		case "assert":
			return p.assertStatement()
		case "print":
			return p.printStatement()
		case "var":
			return p.declaration()
		case "for":
			return p.forLoop()
		}
	case lexer.KindIdentifier:
		return p.assignment()
	}
	return nil, nil
}

func (p *Parser) readStatement() (ast.Statement, *Error) {
	tok, err := p.expect(lexer.KindKeyword, "read")
	if err != nil {
		return nil, err
	}
	ident, err := p.identifier()
	if err != nil {
		return nil, err
	}
	node := ast.NewRead(ident)
	ast.SetToken(node, tok)
	return node, nil
}

func (p *Parser) assertStatement() (ast.Statement, *Error) {
	tok, err := p.expect(lexer.KindKeyword, "assert")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSeparator, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSeparator, ")"); err != nil {
		return nil, err
	}
	node := ast.NewAssert(cond)
	ast.SetToken(node, tok)
	return node, nil
}

func (p *Parser) printStatement() (ast.Statement, *Error) {
	tok, err := p.expect(lexer.KindKeyword, "print")
	if err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	node := ast.NewPrint(value)
	ast.SetToken(node, tok)
	return node, nil
}

func (p *Parser) declaration() (ast.Statement, *Error) {
	tok, err := p.expect(lexer.KindKeyword, "var")
	if err != nil {
		return nil, err
	}
	ident, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSeparator, ":"); err != nil {
		return nil, err
	}
	typeTok, err := p.expectKind(lexer.KindKeyword)
	if err != nil {
		return nil, err
	}
	typeName := ast.NewTypeName(typeTok.Text)
	ast.SetToken(typeName, typeTok)

	var init ast.Node
	if p.at(lexer.KindSeparator, ":=") {
		p.advance()
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	node := ast.NewDeclaration(ident, typeName, init)
	ast.SetToken(node, tok)
	return node, nil
}

func (p *Parser) assignment() (ast.Statement, *Error) {
	ident, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSeparator, ":="); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	node := ast.NewAssignment(ident, value)
	ast.SetToken(node, ident.Token())
	return node, nil
}

func (p *Parser) forLoop() (ast.Statement, *Error) {
	tok, err := p.expect(lexer.KindKeyword, "for")
	if err != nil {
		return nil, err
	}
	control, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindKeyword, "in"); err != nil {
		return nil, err
	}
	begin, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSeparator, ".."); err != nil {
		return nil, err
	}
	end, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindKeyword, "do"); err != nil {
		return nil, err
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, p.errorf("statement expected in for loop")
	}
	if _, err := p.expect(lexer.KindKeyword, "end"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindKeyword, "for"); err != nil {
		return nil, err
	}
	node := ast.NewForLoop(control, begin, end, body)
	ast.SetToken(node, tok)
	return node, nil
}

// expression parses either `op operand` or `operand [op operand]`.
func (p *Parser) expression() (ast.Node, *Error) {
	if p.atKind(lexer.KindOperator) {
		tok := p.current
		p.advance()
		operand, err := p.operand()
		if err != nil {
			return nil, err
		}
		node := ast.NewUnaryOperator(tok.Text, operand)
		ast.SetToken(node, tok)
		return node, nil
	}

	start := p.current
	left, err := p.operand()
	if err != nil {
		return nil, err
	}
	var tail *ast.BinaryTail
	if p.atKind(lexer.KindOperator) {
		tok := p.current
		p.advance()
		right, err := p.operand()
		if err != nil {
			return nil, err
		}
		tail = &ast.BinaryTail{Tok: tok, Operator: tok.Text, Right: right}
	}
	node := ast.NewExpression(left, tail)
	ast.SetToken(node, start)
	return node, nil
}

func (p *Parser) operand() (ast.Node, *Error) {
	if p.current == nil {
		return nil, p.errorf("operand expected")
	}
	tok := p.current
	switch tok.Kind {
	case lexer.KindSeparator:
		if tok.Text != "(" {
			break
		}
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindSeparator, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.KindNumber:
		value, convErr := strconv.ParseInt(tok.Text, 10, 32)
		if convErr != nil {
			return nil, p.errorf("constant too large")
		}
		p.advance()
		node := ast.NewNumber(int32(value))
		ast.SetToken(node, tok)
		return node, nil
	case lexer.KindString:
		p.advance()
		node := ast.NewString(tok.Text)
		ast.SetToken(node, tok)
		return node, nil
	case lexer.KindIdentifier:
		return p.identifier()
	}
	return nil, p.errorf("operand expected, got %s", tok)
}

func (p *Parser) identifier() (*ast.Identifier, *Error) {
	tok, err := p.expectKind(lexer.KindIdentifier)
	if err != nil {
		return nil, err
	}
	node := ast.NewIdentifier(tok.Text)
	ast.SetToken(node, tok)
	return node, nil
}

// Token helpers

func (p *Parser) advance() {
	for {
		tok, ok := p.tokens.Next()
		if !ok {
			p.current = nil
			return
		}
		if tok.Kind.IsComment() {
			continue
		}
		p.current = &tok
		return
	}
}

func (p *Parser) atKind(kind lexer.Kind) bool {
	return p.current != nil && p.current.Kind == kind
}

func (p *Parser) at(kind lexer.Kind, text string) bool {
	return p.current != nil && p.current.Is(kind, text)
}

func (p *Parser) expectKind(kind lexer.Kind) (*lexer.Token, *Error) {
	if p.current == nil {
		return nil, p.errorf("expected token of type %s", kind)
	}
	if p.current.Kind != kind {
		return nil, p.errorf("expected token of type %s, got %s", kind, p.current)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

func (p *Parser) expect(kind lexer.Kind, text string) (*lexer.Token, *Error) {
	want := lexer.Token{Kind: kind, Text: text}
	if p.current == nil {
		return nil, p.errorf("expected token %s", want)
	}
	if !p.current.Is(kind, text) {
		return nil, p.errorf("expected token %s, got %s", want, p.current)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

func (p *Parser) errorf(format string, args ...any) *Error {
	return &Error{Token: p.current, Message: fmt.Sprintf(format, args...)}
}

// fail records err and skips past the next ";" so parsing can resume at
// the following statement.
func (p *Parser) fail(err *Error) {
	p.errors = append(p.errors, err)
	for p.current != nil && !p.at(lexer.KindSeparator, ";") {
		p.advance()
	}
	p.advance()
}
