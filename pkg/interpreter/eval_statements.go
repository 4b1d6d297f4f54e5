package interpreter

import (
	"strconv"
	"strings"
	"unicode"

	"minipl/interpreter-go/pkg/ast"
	"minipl/interpreter-go/pkg/runtime"
	"minipl/interpreter-go/pkg/visitor"
)

func (evaluator) VisitPrint(v *visitor.Visitor, n *ast.Print) (ast.Node, error) {
	value, err := v.Value(n.Value)
	if err != nil {
		return nil, err
	}
	v.Port.Write(ast.Format(value))
	return nil, nil
}

func (evaluator) VisitAssert(v *visitor.Visitor, n *ast.Assert) (ast.Node, error) {
	value, err := v.Value(n.Condition)
	if err != nil {
		return nil, err
	}
	cond, err := visitor.Expect[*ast.Boolean](value, n.Condition, ast.TypeBool)
	if err != nil {
		return nil, err
	}
	if cond.Value {
		return nil, nil
	}
	text, err := Render(n.Condition)
	if err != nil {
		return nil, err
	}
	return nil, visitor.Errorf(n, "assertion failed: %s", text)
}

// VisitRead binds the next whitespace-delimited word of input. Words that
// are not integers are skipped for int variables until end of input.
func (evaluator) VisitRead(v *visitor.Visitor, n *ast.Read) (ast.Node, error) {
	binding, err := v.GetMutable(n.Target)
	if err != nil {
		return nil, err
	}
	switch binding.Value.(type) {
	case *ast.Number:
		for {
			word, atEOF := readWord(v.Port)
			if value, err := strconv.ParseInt(word, 10, 32); err == nil {
				binding.Value = ast.NewNumber(int32(value))
				return nil, nil
			}
			if atEOF {
				return nil, visitor.Errorf(n.Target, "unexpected end of input while reading %s", n.Target.Name)
			}
		}
	case *ast.String:
		word, _ := readWord(v.Port)
		binding.Value = ast.NewString(word)
		return nil, nil
	default:
		return nil, visitor.Errorf(n.Target, "variable %s has unsupported type %s to read from input", n.Target.Name, ast.TypeOf(binding.Value))
	}
}

// readWord collects characters up to the next whitespace, which is
// consumed, or end of input.
func readWord(port runtime.Port) (string, bool) {
	var word strings.Builder
	for {
		r := port.Read()
		if r == runtime.EOF {
			return word.String(), true
		}
		if unicode.IsSpace(r) {
			return word.String(), false
		}
		word.WriteRune(r)
	}
}

func (evaluator) VisitDeclaration(v *visitor.Visitor, n *ast.Declaration) (ast.Node, error) {
	value, ok := ast.ZeroValue(n.TypeName.Name)
	if !ok {
		return nil, visitor.Errorf(n.TypeName, "unknown type %s", n.TypeName.Name)
	}
	if n.Init != nil {
		init, err := v.Value(n.Init)
		if err != nil {
			return nil, err
		}
		if ast.TypeOf(init) != n.TypeName.Name {
			return nil, visitor.Errorf(n, "variable %s of type %s cannot hold value of type %s", n.Target.Name, n.TypeName.Name, ast.TypeOf(init))
		}
		value = init
	}
	return nil, v.Define(n.Target, value)
}

func (evaluator) VisitAssignment(v *visitor.Visitor, n *ast.Assignment) (ast.Node, error) {
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
	binding.Value = value
	return nil, nil
}

// VisitForLoop runs the body once per value in [begin, end]. Each iteration
// gets a fresh immutable binding; afterwards the control variable is
// mutable and holds one past the last value.
func (evaluator) VisitForLoop(v *visitor.Visitor, n *ast.ForLoop) (ast.Node, error) {
	binding, err := v.GetMutable(n.Control)
	if err != nil {
		return nil, err
	}
	if _, err := visitor.Expect[*ast.Number](binding.Value, n.Control, ast.TypeInt); err != nil {
		return nil, err
	}
	begin, err := numberOf(v, n.Begin)
	if err != nil {
		return nil, err
	}
	end, err := numberOf(v, n.End)
	if err != nil {
		return nil, err
	}

	restore, err := v.Freeze(n.Control)
	if err != nil {
		return nil, err
	}
	defer restore()

	// int64 keeps the counter from wrapping when end is the largest int32.
	i := int64(begin)
	for ; i <= int64(end); i++ {
		if err := v.Symbols.Rebind(n.Control.Name, ast.NewNumber(int32(i)), true); err != nil {
			return nil, err
		}
		result, err := v.Visit(n.Body)
		if err != nil {
			return nil, err
		}
		if err := visitor.ExpectNull(result, n.Body); err != nil {
			return nil, err
		}
	}
	return nil, v.Symbols.Rebind(n.Control.Name, ast.NewNumber(int32(i)), false)
}

func numberOf(v *visitor.Visitor, node ast.Node) (int32, error) {
	value, err := v.Value(node)
	if err != nil {
		return 0, err
	}
	n, err := visitor.Expect[*ast.Number](value, node, ast.TypeInt)
	if err != nil {
		return 0, err
	}
	return n.Value, nil
}
