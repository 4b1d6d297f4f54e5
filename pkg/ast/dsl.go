package ast

// Builders for hand-assembled trees, mostly used by tests.

func Num(value int32) *Number { return NewNumber(value) }

func Str(value string) *String { return NewString(value) }

func Bool(value bool) *Boolean { return NewBoolean(value) }

func ID(name string) *Identifier { return NewIdentifier(name) }

func Ty(name string) *TypeName { return NewTypeName(name) }

// Expr wraps a single operand in an expression without a tail.
func Expr(operand Node) *Expression { return NewExpression(operand, nil) }

// Bin builds `left op right`.
func Bin(op string, left, right Node) *Expression {
	return NewExpression(left, &BinaryTail{Operator: op, Right: right})
}

func Unary(op string, operand Node) *UnaryOperator { return NewUnaryOperator(op, operand) }

func PrintStmt(value Node) *Print { return NewPrint(value) }

func ReadStmt(name string) *Read { return NewRead(ID(name)) }

func AssertStmt(condition Node) *Assert { return NewAssert(condition) }

// Var declares name with the given type; init may be nil.
func Var(name, typeName string, init Node) *Declaration {
	return NewDeclaration(ID(name), Ty(typeName), init)
}

func Assign(name string, value Node) *Assignment { return NewAssignment(ID(name), value) }

func For(name string, begin, end Node, body ...Statement) *ForLoop {
	return NewForLoop(ID(name), begin, end, Stmts(body...))
}

// Stmts links statements into a chain; it returns nil for no statements.
func Stmts(stmts ...Statement) *Statements {
	var head *Statements
	for i := len(stmts) - 1; i >= 0; i-- {
		head = NewStatements(stmts[i], head)
	}
	return head
}
