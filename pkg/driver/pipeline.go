package driver

import (
	"fmt"
	"io"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/interpreter"
	"minipl/interpreter-go/pkg/lexer"
	"minipl/interpreter-go/pkg/parser"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/typechecker"
)

// Status is the last pipeline stage a run reached.
type Status string

const (
	StatusOK       Status = "ok"
	StatusLexical  Status = "lexical"
	StatusSyntax   Status = "syntax"
	StatusSemantic Status = "semantic"
	StatusRuntime  Status = "runtime"
)

// IsValid reports whether the status is recognised.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusLexical, StatusSyntax, StatusSemantic, StatusRuntime:
		return true
	default:
		return false
	}
}

// TerminatedMessage follows the diagnostic of a fatal runtime error.
const TerminatedMessage = "Interpreter terminated with errors"

// Options tune a pipeline run.
type Options struct {
	// DumpTokens, when set, receives every lexed token before parsing.
	DumpTokens io.Writer
}

// Result describes how far a run got.
type Result struct {
	Status  Status
	Program *ast.Statements
	// Symbols holds the final bindings after execution.
	Symbols *runtime.Environment
	// Err is the runtime error that stopped execution, or a failure to
	// read the source.
	Err error
}

// OK reports whether every stage succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK && r.Err == nil
}

// Run lexes, parses, analyzes and executes src. Each stage runs only when
// the ones before it reported nothing; every diagnostic goes to port.
func Run(port runtime.Port, src io.Reader, opts Options) Result {
	res := Check(port, src, opts)
	if !res.OK() {
		return res
	}
	env, err := interpreter.New(port).Execute(res.Program)
	res.Symbols = env
	if err != nil {
		port.WriteLine(TerminatedMessage)
		res.Status = StatusRuntime
		res.Err = err
	}
	return res
}

// Check runs every stage except execution.
func Check(port runtime.Port, src io.Reader, opts Options) Result {
	cursor := lexer.NewCursor(src)
	lex := lexer.New(cursor)
	lex.LexAll()
	if err := cursor.Err(); err != nil {
		return Result{Status: StatusLexical, Err: fmt.Errorf("driver: read source: %w", err)}
	}
	if opts.DumpTokens != nil {
		DumpTokens(opts.DumpTokens, lex.Tokens())
	}
	for _, err := range lex.Errors() {
		port.WriteLine(err.Error())
	}

	p := parser.New(lex)
	program := p.Parse()
	for _, err := range p.Errors() {
		port.WriteLine(err.Error())
	}
	switch {
	case lex.Errored():
		return Result{Status: StatusLexical}
	case p.Errored():
		return Result{Status: StatusSyntax}
	}

	diags, err := typechecker.New(port).CheckProgram(program)
	if err != nil {
		return Result{Status: StatusSemantic, Err: err}
	}
	if len(diags) > 0 {
		return Result{Status: StatusSemantic, Program: program}
	}
	return Result{Status: StatusOK, Program: program}
}

// DumpTokens writes one token per line as `KIND "text" at line:col`.
func DumpTokens(w io.Writer, tokens []lexer.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%s %q at %s\n", tok.Kind, tok.Text, tok.Pos)
	}
}
