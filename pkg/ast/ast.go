package ast

import (
	"strconv"

	"minipl/interpreter-go/pkg/lexer"
)

type NodeType string

const (
	NodeNumber        NodeType = "Number"
	NodeString        NodeType = "String"
	NodeBoolean       NodeType = "Boolean"
	NodeIdentifier    NodeType = "Identifier"
	NodeTypeName      NodeType = "TypeName"
	NodeExpression    NodeType = "Expression"
	NodeUnaryOperator NodeType = "UnaryOperator"
	NodePrint         NodeType = "Print"
	NodeRead          NodeType = "Read"
	NodeAssert        NodeType = "Assert"
	NodeDeclaration   NodeType = "Declaration"
	NodeAssignment    NodeType = "Assignment"
	NodeForLoop       NodeType = "ForLoop"
	NodeStatements    NodeType = "Statements"
)

// Node is implemented by every AST variant. Token is the originating
// lexeme, nil for nodes synthesized during analysis or evaluation.
type Node interface {
	NodeType() NodeType
	Token() *lexer.Token
	isNode()
}

type nodeImpl struct {
	Type NodeType
	Tok  *lexer.Token
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }

func (n nodeImpl) Token() *lexer.Token { return n.Tok }

func (nodeImpl) isNode() {}

func (n *nodeImpl) setToken(t *lexer.Token) { n.Tok = t }

type tokenSetter interface {
	setToken(*lexer.Token)
}

// SetToken attaches the originating token to node.
func SetToken(node Node, tok *lexer.Token) {
	if s, ok := node.(tokenSetter); ok {
		s.setToken(tok)
	}
}

// Marker interfaces.

// Value is a leaf that a variable can hold: Number, String or Boolean.
type Value interface {
	Node
	valueNode()
}

type valueMarker struct{}

func (valueMarker) valueNode() {}

// Statement is one of the five statement forms plus assignment.
type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Literals

type Number struct {
	nodeImpl
	valueMarker

	Value int32
}

func NewNumber(value int32) *Number {
	return &Number{nodeImpl: newNodeImpl(NodeNumber), Value: value}
}

type String struct {
	nodeImpl
	valueMarker

	Value string
}

func NewString(value string) *String {
	return &String{nodeImpl: newNodeImpl(NodeString), Value: value}
}

type Boolean struct {
	nodeImpl
	valueMarker

	Value bool
}

func NewBoolean(value bool) *Boolean {
	return &Boolean{nodeImpl: newNodeImpl(NodeBoolean), Value: value}
}

// Names

type Identifier struct {
	nodeImpl

	Name string
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type TypeName struct {
	nodeImpl

	Name string
}

func NewTypeName(name string) *TypeName {
	return &TypeName{nodeImpl: newNodeImpl(NodeTypeName), Name: name}
}

// Expressions

// Expression is an operand optionally followed by one binary operation.
// There is no precedence chain: a tail never nests another tail.
type Expression struct {
	nodeImpl

	Left Node
	Tail *BinaryTail
}

// BinaryTail is the "operator operand" suffix of a binary expression.
type BinaryTail struct {
	Tok      *lexer.Token
	Operator string
	Right    Node
}

func NewExpression(left Node, tail *BinaryTail) *Expression {
	return &Expression{nodeImpl: newNodeImpl(NodeExpression), Left: left, Tail: tail}
}

type UnaryOperator struct {
	nodeImpl

	Operator string
	Operand  Node
}

func NewUnaryOperator(operator string, operand Node) *UnaryOperator {
	return &UnaryOperator{nodeImpl: newNodeImpl(NodeUnaryOperator), Operator: operator, Operand: operand}
}

// Statements

type Print struct {
	nodeImpl
	statementMarker

	Value Node
}

func NewPrint(value Node) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint), Value: value}
}

type Read struct {
	nodeImpl
	statementMarker

	Target *Identifier
}

func NewRead(target *Identifier) *Read {
	return &Read{nodeImpl: newNodeImpl(NodeRead), Target: target}
}

type Assert struct {
	nodeImpl
	statementMarker

	Condition Node
}

func NewAssert(condition Node) *Assert {
	return &Assert{nodeImpl: newNodeImpl(NodeAssert), Condition: condition}
}

// Declaration is `var ident : type [:= init]`; Init is nil when omitted.
type Declaration struct {
	nodeImpl
	statementMarker

	Target   *Identifier
	TypeName *TypeName
	Init     Node
}

func NewDeclaration(target *Identifier, typeName *TypeName, init Node) *Declaration {
	return &Declaration{nodeImpl: newNodeImpl(NodeDeclaration), Target: target, TypeName: typeName, Init: init}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier
	Value  Node
}

func NewAssignment(target *Identifier, value Node) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Control *Identifier
	Begin   Node
	End     Node
	Body    *Statements
}

func NewForLoop(control *Identifier, begin, end Node, body *Statements) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Control: control, Begin: begin, End: end, Body: body}
}

// Statements is a singly linked list of statements in program order.
type Statements struct {
	nodeImpl

	Statement Statement
	Tail      *Statements
}

func NewStatements(stmt Statement, tail *Statements) *Statements {
	return &Statements{nodeImpl: newNodeImpl(NodeStatements), Statement: stmt, Tail: tail}
}

// List flattens the chain.
func (s *Statements) List() []Statement {
	var out []Statement
	for cur := s; cur != nil; cur = cur.Tail {
		out = append(out, cur.Statement)
	}
	return out
}

// Types

const (
	TypeInt    = "int"
	TypeString = "string"
	TypeBool   = "bool"
)

// VariantOf maps a declared type name to the value variant it admits.
func VariantOf(typeName string) (NodeType, bool) {
	switch typeName {
	case TypeInt:
		return NodeNumber, true
	case TypeString:
		return NodeString, true
	case TypeBool:
		return NodeBoolean, true
	default:
		return "", false
	}
}

// ZeroValue returns the initial value of an uninitialized declaration.
func ZeroValue(typeName string) (Value, bool) {
	switch typeName {
	case TypeInt:
		return NewNumber(0), true
	case TypeString:
		return NewString(""), true
	case TypeBool:
		return NewBoolean(false), true
	default:
		return nil, false
	}
}

// TypeOf names the language type of a node's variant, falling back to
// the variant name for non-values.
func TypeOf(node Node) string {
	if node == nil {
		return "nothing"
	}
	switch node.NodeType() {
	case NodeNumber:
		return TypeInt
	case NodeString:
		return TypeString
	case NodeBoolean:
		return TypeBool
	default:
		return string(node.NodeType())
	}
}

// Format renders a value the way print writes it.
func Format(v Value) string {
	switch n := v.(type) {
	case *Number:
		return strconv.FormatInt(int64(n.Value), 10)
	case *String:
		return n.Value
	case *Boolean:
		return strconv.FormatBool(n.Value)
	default:
		return ""
	}
}
