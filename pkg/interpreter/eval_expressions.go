package interpreter

import (
	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/visitor"
)

func (evaluator) VisitExpression(v *visitor.Visitor, n *ast.Expression) (ast.Node, error) {
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
	op := n.Tail.Operator

	switch l := left.(type) {
	case *ast.Number:
		if r, ok := right.(*ast.Number); ok {
			return evalNumbers(n, op, l.Value, r.Value)
		}
	case *ast.String:
		if r, ok := right.(*ast.String); ok {
			switch op {
			case "+":
				return ast.NewString(l.Value + r.Value), nil
			case "=":
				return ast.NewBoolean(l.Value == r.Value), nil
			case "<":
				return ast.NewBoolean(l.Value < r.Value), nil
			}
		}
	case *ast.Boolean:
		if r, ok := right.(*ast.Boolean); ok {
			switch op {
			case "&":
				return ast.NewBoolean(l.Value && r.Value), nil
			case "=":
				return ast.NewBoolean(l.Value == r.Value), nil
			case "<":
				// false < true is the only true ordering.
				return ast.NewBoolean(!l.Value && r.Value), nil
			}
		}
	}
	return nil, visitor.Errorf(n, "unknown binary operator %s for operand types left: %s, right: %s", op, ast.TypeOf(left), ast.TypeOf(right))
}

// evalNumbers applies op with 32-bit two's complement wrap-around.
func evalNumbers(n *ast.Expression, op string, l, r int32) (ast.Node, error) {
	switch op {
	case "+":
		return ast.NewNumber(l + r), nil
	case "-":
		return ast.NewNumber(l - r), nil
	case "*":
		return ast.NewNumber(l * r), nil
	case "/":
		if r == 0 {
			return nil, visitor.Errorf(n, "division by zero")
		}
		return ast.NewNumber(l / r), nil
	case "=":
		return ast.NewBoolean(l == r), nil
	case "<":
		return ast.NewBoolean(l < r), nil
	}
	return nil, visitor.Errorf(n, "unknown binary operator %s for operand types left: int, right: int", op)
}

func (evaluator) VisitUnaryOperator(v *visitor.Visitor, n *ast.UnaryOperator) (ast.Node, error) {
	operand, err := v.Value(n.Operand)
	if err != nil {
		return nil, err
	}
	b, ok := visitor.As[*ast.Boolean](operand)
	if n.Operator != "!" || !ok {
		return nil, visitor.Errorf(n, "unknown unary operator %s for operand type %s", n.Operator, ast.TypeOf(operand))
	}
	return ast.NewBoolean(!b.Value), nil
}
