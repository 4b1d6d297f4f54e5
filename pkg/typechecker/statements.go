package typechecker

import (
	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/visitor"
)

func (analyzer) VisitPrint(v *visitor.Visitor, n *ast.Print) (ast.Node, error) {
	if _, err := v.Value(n.Value); err != nil {
		return nil, err
	}
	return nil, nil
}

func (analyzer) VisitAssert(v *visitor.Visitor, n *ast.Assert) (ast.Node, error) {
	cond, err := v.Value(n.Condition)
	if err != nil {
		return nil, err
	}
	if !visitor.Is[*ast.Boolean](cond) {
		return nil, visitor.Errorf(n, "assert condition must be of type bool, got %s", ast.TypeOf(cond))
	}
	return nil, nil
}

func (analyzer) VisitRead(v *visitor.Visitor, n *ast.Read) (ast.Node, error) {
	binding, err := v.GetMutable(n.Target)
	if err != nil {
		return nil, err
	}
	switch binding.Value.(type) {
	case *ast.Number, *ast.String:
		return nil, nil
	default:
		return nil, visitor.Errorf(n.Target, "variable %s has unsupported type %s to read from input", n.Target.Name, ast.TypeOf(binding.Value))
	}
}

// VisitDeclaration binds the variable even when its initializer is
// rejected, so later uses do not cascade into undefined-identifier errors.
func (analyzer) VisitDeclaration(v *visitor.Visitor, n *ast.Declaration) (ast.Node, error) {
	zero, ok := ast.ZeroValue(n.TypeName.Name)
	if !ok {
		return nil, visitor.Errorf(n.TypeName, "unknown type %s", n.TypeName.Name)
	}
	var initErr error
	if n.Init != nil {
		value, err := v.Value(n.Init)
		switch {
		case err != nil:
			initErr = err
		case ast.TypeOf(value) != n.TypeName.Name:
			initErr = visitor.Errorf(n, "variable %s of type %s cannot hold value of type %s", n.Target.Name, n.TypeName.Name, ast.TypeOf(value))
		}
	}
	if err := v.Define(n.Target, zero); err != nil {
		return nil, err
	}
	return nil, initErr
}

func (analyzer) VisitAssignment(v *visitor.Visitor, n *ast.Assignment) (ast.Node, error) {
	binding, err := v.GetMutable(n.Target)
	if err != nil {
		return nil, err
	}
	value, err := v.Value(n.Value)
	if err != nil {
		return nil, err
	}
	if want, got := ast.TypeOf(binding.Value), ast.TypeOf(value); want != got {
		return nil, visitor.Errorf(n, "cannot assign value of type %s to variable %s of type %s", got, n.Target.Name, want)
	}
	return nil, nil
}

// VisitForLoop checks the body once with the control variable frozen.
func (analyzer) VisitForLoop(v *visitor.Visitor, n *ast.ForLoop) (ast.Node, error) {
	binding, err := v.GetMutable(n.Control)
	if err != nil {
		return nil, err
	}
	if !visitor.Is[*ast.Number](binding.Value) {
		return nil, visitor.Errorf(n.Control, "loop control variable %s must be of type int, got %s", n.Control.Name, ast.TypeOf(binding.Value))
	}
	for _, bound := range []ast.Node{n.Begin, n.End} {
		value, err := v.Value(bound)
		if err != nil {
			return nil, err
		}
		if !visitor.Is[*ast.Number](value) {
			return nil, visitor.Errorf(bound, "loop range bound must be of type int, got %s", ast.TypeOf(value))
		}
	}

	restore, err := v.Freeze(n.Control)
	if err != nil {
		return nil, err
	}
	defer restore()
	return v.Visit(n.Body)
}
