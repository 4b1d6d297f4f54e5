package typechecker

import (
	"fmt"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/visitor"
)

// Name prefixes every semantic diagnostic.
const Name = "Semantic analysis"

// Checker walks a program with placeholder values and records every
// semantic error it finds; it never performs I/O besides reporting.
type Checker struct {
	port runtime.Port
}

// Diagnostic represents a semantic error.
type Diagnostic struct {
	Message string
	Node    ast.Node
}

// New returns a checker reporting to port.
func New(port runtime.Port) *Checker {
	return &Checker{port: port}
}

// CheckProgram analyzes program, writes each diagnostic to the port and
// returns them. A fresh symbol table is used on every call.
func (c *Checker) CheckProgram(program *ast.Statements) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("typechecker: program is nil")
	}
	v := visitor.New(Name, c.port, analyzer{})
	v.Run(program)

	var diagnostics []Diagnostic
	for _, d := range v.Diagnostics() {
		diagnostics = append(diagnostics, Diagnostic{Message: d.Message, Node: d.Node})
	}
	return diagnostics, nil
}

// analyzer is the handler set of the semantic pass. Expressions yield the
// zero value of their type instead of their real value.
type analyzer struct{}

func (analyzer) VisitNumber(_ *visitor.Visitor, n *ast.Number) (ast.Node, error) {
	return n, nil
}

func (analyzer) VisitString(_ *visitor.Visitor, n *ast.String) (ast.Node, error) {
	return n, nil
}

func (analyzer) VisitBoolean(_ *visitor.Visitor, n *ast.Boolean) (ast.Node, error) {
	return n, nil
}

func (analyzer) VisitTypeName(_ *visitor.Visitor, n *ast.TypeName) (ast.Node, error) {
	return n, nil
}

func (analyzer) VisitIdentifier(v *visitor.Visitor, n *ast.Identifier) (ast.Node, error) {
	return v.Get(n)
}

// VisitStatements checks every statement, reporting failures and moving on
// so one pass surfaces all semantic errors.
func (analyzer) VisitStatements(v *visitor.Visitor, n *ast.Statements) (ast.Node, error) {
	for cur := n; cur != nil; cur = cur.Tail {
		result, err := v.Visit(cur.Statement)
		if err == nil {
			err = visitor.ExpectNull(result, cur.Statement)
		}
		if err != nil {
			v.Report(err)
		}
	}
	return nil, nil
}
