package typechecker

import (
	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/visitor"
)

// BinaryResultType returns the type produced by `left op right`, or false
// when the operator is not defined for that operand pair.
func BinaryResultType(op, left, right string) (string, bool) {
	if left != right {
		return "", false
	}
	switch left {
	case ast.TypeInt:
		switch op {
		case "+", "-", "*", "/":
			return ast.TypeInt, true
		case "=", "<":
			return ast.TypeBool, true
		}
	case ast.TypeString:
		switch op {
		case "+":
			return ast.TypeString, true
		case "=", "<":
			return ast.TypeBool, true
		}
	case ast.TypeBool:
		switch op {
		case "&", "=", "<":
			return ast.TypeBool, true
		}
	}
	return "", false
}

func (analyzer) VisitExpression(v *visitor.Visitor, n *ast.Expression) (ast.Node, error) {
	left, err := v.Value(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Tail == nil {
		return left, nil
	}
	right, err := v.Value(n.Tail.Right)
	if err != nil {
		return nil, err
	}
	leftType, rightType := ast.TypeOf(left), ast.TypeOf(right)
	resultType, ok := BinaryResultType(n.Tail.Operator, leftType, rightType)
	if !ok {
		return nil, visitor.Errorf(n, "unknown binary operator %s for operand types left: %s, right: %s", n.Tail.Operator, leftType, rightType)
	}
	zero, _ := ast.ZeroValue(resultType)
	return zero, nil
}

func (analyzer) VisitUnaryOperator(v *visitor.Visitor, n *ast.UnaryOperator) (ast.Node, error) {
	operand, err := v.Value(n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Operator != "!" {
		return nil, visitor.Errorf(n, "unknown unary operator %s for operand type %s", n.Operator, ast.TypeOf(operand))
	}
	if _, err := visitor.Expect[*ast.Boolean](operand, n, ast.TypeBool); err != nil {
		return nil, visitor.Errorf(n, "unary operator ! requires operand of type bool, got %s", ast.TypeOf(operand))
	}
	return ast.NewBoolean(false), nil
}
