package visitor

import (
	"errors"
	"fmt"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/runtime"
)

// Error is raised by handlers. Node is the offending node; its token, when
// present, positions the diagnostic.
type Error struct {
	Message string
	Node    ast.Node
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an Error attributed to node.
func Errorf(node ast.Node, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Node: node}
}

// Handler installs the behavior of one traversal, one method per node kind.
// Statement handlers return a nil node.
type Handler interface {
	VisitNumber(v *Visitor, n *ast.Number) (ast.Node, error)
	VisitString(v *Visitor, n *ast.String) (ast.Node, error)
	VisitBoolean(v *Visitor, n *ast.Boolean) (ast.Node, error)
	VisitIdentifier(v *Visitor, n *ast.Identifier) (ast.Node, error)
	VisitTypeName(v *Visitor, n *ast.TypeName) (ast.Node, error)
	VisitExpression(v *Visitor, n *ast.Expression) (ast.Node, error)
	VisitUnaryOperator(v *Visitor, n *ast.UnaryOperator) (ast.Node, error)
	VisitPrint(v *Visitor, n *ast.Print) (ast.Node, error)
	VisitRead(v *Visitor, n *ast.Read) (ast.Node, error)
	VisitAssert(v *Visitor, n *ast.Assert) (ast.Node, error)
	VisitDeclaration(v *Visitor, n *ast.Declaration) (ast.Node, error)
	VisitAssignment(v *Visitor, n *ast.Assignment) (ast.Node, error)
	VisitForLoop(v *Visitor, n *ast.ForLoop) (ast.Node, error)
	VisitStatements(v *Visitor, n *ast.Statements) (ast.Node, error)
}

// Visitor is one traversal: a handler set plus the state it shares, the
// symbol table, the output port and the sticky error flag.
type Visitor struct {
	Name    string
	Port    runtime.Port
	Symbols *runtime.Environment

	handler     Handler
	errored     bool
	diagnostics []*Error
}

// New returns a traversal named name (used as the diagnostic prefix).
func New(name string, port runtime.Port, handler Handler) *Visitor {
	return &Visitor{
		Name:    name,
		Port:    port,
		Symbols: runtime.NewEnvironment(),
		handler: handler,
	}
}

// Visit dispatches node to the handler method for its kind.
func (v *Visitor) Visit(node ast.Node) (ast.Node, error) {
	switch n := node.(type) {
	case nil:
		return nil, Errorf(nil, "missing node")
	case *ast.Number:
		return v.handler.VisitNumber(v, n)
	case *ast.String:
		return v.handler.VisitString(v, n)
	case *ast.Boolean:
		return v.handler.VisitBoolean(v, n)
	case *ast.Identifier:
		return v.handler.VisitIdentifier(v, n)
	case *ast.TypeName:
		return v.handler.VisitTypeName(v, n)
	case *ast.Expression:
		return v.handler.VisitExpression(v, n)
	case *ast.UnaryOperator:
		return v.handler.VisitUnaryOperator(v, n)
	case *ast.Print:
		return v.handler.VisitPrint(v, n)
	case *ast.Read:
		return v.handler.VisitRead(v, n)
	case *ast.Assert:
		return v.handler.VisitAssert(v, n)
	case *ast.Declaration:
		return v.handler.VisitDeclaration(v, n)
	case *ast.Assignment:
		return v.handler.VisitAssignment(v, n)
	case *ast.ForLoop:
		return v.handler.VisitForLoop(v, n)
	case *ast.Statements:
		return v.handler.VisitStatements(v, n)
	default:
		return nil, Errorf(node, "no handler for node type %s", node.NodeType())
	}
}

// Value visits node and requires the result to be a Number, String or
// Boolean.
func (v *Visitor) Value(node ast.Node) (ast.Value, error) {
	result, err := v.Visit(node)
	if err != nil {
		return nil, err
	}
	if err := ExpectNotNull(result, node); err != nil {
		return nil, err
	}
	value, ok := As[ast.Value](result)
	if !ok {
		return nil, Errorf(node, "expected a value, got %s", ast.TypeOf(result))
	}
	return value, nil
}

// Get reads the value bound to ident.
func (v *Visitor) Get(ident *ast.Identifier) (ast.Value, error) {
	value, err := v.Symbols.Get(ident.Name)
	if err != nil {
		return nil, v.symbolError(ident, err)
	}
	return value, nil
}

// GetMutable returns the binding of ident, failing if it is undefined or
// frozen.
func (v *Visitor) GetMutable(ident *ast.Identifier) (*runtime.Binding, error) {
	b, err := v.Symbols.LookupMutable(ident.Name)
	if err != nil {
		return nil, v.symbolError(ident, err)
	}
	return b, nil
}

// Define binds ident to value in the symbol table.
func (v *Visitor) Define(ident *ast.Identifier, value ast.Value) error {
	if err := v.Symbols.Define(ident.Name, value); err != nil {
		return v.symbolError(ident, err)
	}
	return nil
}

// Freeze makes ident immutable until the returned restore is called.
func (v *Visitor) Freeze(ident *ast.Identifier) (func(), error) {
	restore, err := v.Symbols.Freeze(ident.Name)
	if err != nil {
		return nil, v.symbolError(ident, err)
	}
	return restore, nil
}

func (v *Visitor) symbolError(ident *ast.Identifier, err error) error {
	switch {
	case errors.Is(err, runtime.ErrUndefined):
		return Errorf(ident, "using undefined identifier %s", ident.Name)
	case errors.Is(err, runtime.ErrImmutable):
		return Errorf(ident, "trying to change immutable variable %s", ident.Name)
	case errors.Is(err, runtime.ErrRedeclared):
		return Errorf(ident, "variable %s already defined", ident.Name)
	default:
		return Errorf(ident, "%v", err)
	}
}

// Report writes err to the port as "<name> error at <pos>: <message>" and
// sets the errored flag.
func (v *Visitor) Report(err error) {
	var verr *Error
	if !errors.As(err, &verr) {
		verr = &Error{Message: err.Error()}
	}
	v.errored = true
	v.diagnostics = append(v.diagnostics, verr)
	v.Port.WriteLine(fmt.Sprintf("%s error at %s: %s", v.Name, position(verr.Node), verr.Message))
}

// Run visits root and reports an escaping error. It returns false when
// anything was reported during the traversal.
func (v *Visitor) Run(root ast.Node) bool {
	if _, err := v.Visit(root); err != nil {
		v.Report(err)
	}
	return !v.errored
}

// Errored reports whether any error was reported.
func (v *Visitor) Errored() bool {
	return v.errored
}

// Diagnostics returns the reported errors in order.
func (v *Visitor) Diagnostics() []*Error {
	return v.diagnostics
}

func position(node ast.Node) string {
	if node == nil {
		return "<end of file>"
	}
	tok := node.Token()
	if tok == nil {
		return "<end of file>"
	}
	return tok.Pos.String()
}
