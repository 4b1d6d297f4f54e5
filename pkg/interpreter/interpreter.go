package interpreter

import (
	"fmt"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/visitor"
)

// Name prefixes every runtime diagnostic.
const Name = "Interpreter"

// Interpreter executes analyzed programs against a Port. The first runtime
// error is fatal: it is reported to the port and execution stops.
type Interpreter struct {
	port runtime.Port
}

// New returns an interpreter reading and writing through port.
func New(port runtime.Port) *Interpreter {
	return &Interpreter{port: port}
}

// Execute runs program with a fresh symbol table and returns the final
// bindings. A runtime error is reported to the port before it is returned.
func (i *Interpreter) Execute(program *ast.Statements) (*runtime.Environment, error) {
	if program == nil {
		return nil, fmt.Errorf("interpreter: program is nil")
	}
	v := visitor.New(Name, i.port, evaluator{})
	if _, err := v.Visit(program); err != nil {
		v.Report(err)
		return v.Symbols, err
	}
	return v.Symbols, nil
}

// evaluator is the handler set that performs real evaluation.
type evaluator struct{}

func (evaluator) VisitNumber(_ *visitor.Visitor, n *ast.Number) (ast.Node, error) {
	return n, nil
}

func (evaluator) VisitString(_ *visitor.Visitor, n *ast.String) (ast.Node, error) {
	return n, nil
}

func (evaluator) VisitBoolean(_ *visitor.Visitor, n *ast.Boolean) (ast.Node, error) {
	return n, nil
}

func (evaluator) VisitTypeName(_ *visitor.Visitor, n *ast.TypeName) (ast.Node, error) {
	return n, nil
}

func (evaluator) VisitIdentifier(v *visitor.Visitor, n *ast.Identifier) (ast.Node, error) {
	return v.Get(n)
}

// VisitStatements stops at the first failing statement.
func (evaluator) VisitStatements(v *visitor.Visitor, n *ast.Statements) (ast.Node, error) {
	for cur := n; cur != nil; cur = cur.Tail {
		result, err := v.Visit(cur.Statement)
		if err != nil {
			return nil, err
		}
		if err := visitor.ExpectNull(result, cur.Statement); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
