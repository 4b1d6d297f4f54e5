package visitor

import "minipl/interpreter-go/pkg/ast"

// As converts node to T without raising.
func As[T any](node ast.Node) (T, bool) {
	t, ok := node.(T)
	return t, ok
}

// Is reports whether node is a T.
func Is[T any](node ast.Node) bool {
	_, ok := node.(T)
	return ok
}

// Expect converts node to T or raises an error on from naming the wanted
// type and the one found.
func Expect[T any](node ast.Node, from ast.Node, want string) (T, error) {
	t, ok := node.(T)
	if !ok {
		var zero T
		return zero, Errorf(from, "expected %s, got %s", want, ast.TypeOf(node))
	}
	return t, nil
}

// ExpectNull raises when a visit that should produce nothing produced a node.
func ExpectNull(result ast.Node, from ast.Node) error {
	if result != nil {
		return Errorf(from, "unexpected result %s", ast.TypeOf(result))
	}
	return nil
}

// ExpectNotNull raises when a visit that should produce a node produced none.
func ExpectNotNull(result ast.Node, from ast.Node) error {
	if result == nil {
		return Errorf(from, "expression has no value")
	}
	return nil
}

// Unsupported rejects every node kind. Handler sets that only cover part of
// the tree embed it and override what they support.
type Unsupported struct{}

func (Unsupported) reject(node ast.Node) (ast.Node, error) {
	return nil, Errorf(node, "unsupported node type %s", node.NodeType())
}

func (u Unsupported) VisitNumber(_ *Visitor, n *ast.Number) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitString(_ *Visitor, n *ast.String) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitBoolean(_ *Visitor, n *ast.Boolean) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitIdentifier(_ *Visitor, n *ast.Identifier) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitTypeName(_ *Visitor, n *ast.TypeName) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitExpression(_ *Visitor, n *ast.Expression) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitUnaryOperator(_ *Visitor, n *ast.UnaryOperator) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitPrint(_ *Visitor, n *ast.Print) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitRead(_ *Visitor, n *ast.Read) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitAssert(_ *Visitor, n *ast.Assert) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitDeclaration(_ *Visitor, n *ast.Declaration) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitAssignment(_ *Visitor, n *ast.Assignment) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitForLoop(_ *Visitor, n *ast.ForLoop) (ast.Node, error) {
	return u.reject(n)
}

func (u Unsupported) VisitStatements(_ *Visitor, n *ast.Statements) (ast.Node, error) {
	return u.reject(n)
}
