package lexer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	KindKeyword Kind = iota
	KindIdentifier
	KindSeparator
	KindOperator
	KindNumber
	KindString
	KindComment
	KindBlockComment
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "KEYWORD"
	case KindIdentifier:
		return "IDENTIFIER"
	case KindSeparator:
		return "SEPARATOR"
	case KindOperator:
		return "OPERATOR"
	case KindNumber:
		return "NUMBER"
	case KindString:
		return "STRING"
	case KindComment:
		return "COMMENT"
	case KindBlockComment:
		return "BLOCKCOMMENT"
	default:
		return fmt.Sprintf("KIND_%d", int(k))
	}
}

// IsComment reports whether tokens of this kind are dropped before parsing.
func (k Kind) IsComment() bool {
	return k == KindComment || k == KindBlockComment
}

// Keywords is the fixed keyword set of the language.
var Keywords = map[string]struct{}{
	"var":    {},
	"for":    {},
	"end":    {},
	"in":     {},
	"do":     {},
	"read":   {},
	"print":  {},
	"int":    {},
	"string": {},
	"bool":   {},
	"assert": {},
}

// IsKeyword reports whether text is reserved.
func IsKeyword(text string) bool {
	_, ok := Keywords[text]
	return ok
}

// Position is a location in the source. Line and Column are 1-based,
// Offset counts characters from the start of the input.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified lexeme. Text holds the semantic text: string
// literals are unquoted with escapes resolved, comments exclude their
// delimiters.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) String() string {
	return fmt.Sprintf("{%s %q}", t.Kind, t.Text)
}
