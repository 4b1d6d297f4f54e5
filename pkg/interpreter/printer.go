package interpreter

import (
	"strconv"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/visitor"
)

// Render reproduces the surface syntax of an unevaluated expression. Every
// binary subexpression is wrapped in parentheses.
func Render(node ast.Node) (string, error) {
	v := visitor.New("Expression printer", runtime.NewBuffer(""), printer{})
	result, err := v.Visit(node)
	if err != nil {
		return "", err
	}
	text, err := visitor.Expect[*ast.String](result, node, ast.TypeString)
	if err != nil {
		return "", err
	}
	return text.Value, nil
}

// printer renders expressions to String nodes; statements are rejected.
type printer struct {
	visitor.Unsupported
}

func (printer) VisitNumber(_ *visitor.Visitor, n *ast.Number) (ast.Node, error) {
	return ast.NewString(strconv.FormatInt(int64(n.Value), 10)), nil
}

func (printer) VisitString(_ *visitor.Visitor, n *ast.String) (ast.Node, error) {
	return ast.NewString(strconv.Quote(n.Value)), nil
}

func (printer) VisitBoolean(_ *visitor.Visitor, n *ast.Boolean) (ast.Node, error) {
	return ast.NewString(strconv.FormatBool(n.Value)), nil
}

func (printer) VisitIdentifier(_ *visitor.Visitor, n *ast.Identifier) (ast.Node, error) {
	return ast.NewString(n.Name), nil
}

func (p printer) VisitExpression(v *visitor.Visitor, n *ast.Expression) (ast.Node, error) {
	left, err := p.text(v, n.Left)
	if err != nil {
		return nil, err
	}
	if n.Tail == nil {
		return ast.NewString(left), nil
	}
	right, err := p.text(v, n.Tail.Right)
	if err != nil {
		return nil, err
	}
	return ast.NewString("(" + left + n.Tail.Operator + right + ")"), nil
}

func (p printer) VisitUnaryOperator(v *visitor.Visitor, n *ast.UnaryOperator) (ast.Node, error) {
	operand, err := p.text(v, n.Operand)
	if err != nil {
		return nil, err
	}
	return ast.NewString(n.Operator + operand), nil
}

func (printer) text(v *visitor.Visitor, node ast.Node) (string, error) {
	result, err := v.Visit(node)
	if err != nil {
		return "", err
	}
	s, err := visitor.Expect[*ast.String](result, node, ast.TypeString)
	if err != nil {
		return "", err
	}
	return s.Value, nil
}
