package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Error is a lexical diagnostic.
type Error struct {
	Pos     Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Lexical error at %s: %s", e.Pos, e.Message)
}

// Lexer turns a Cursor into a queue of tokens. Lexical errors are recorded
// and lexing resumes on the next line, so one pass can surface several.
type Lexer struct {
	cursor  *Cursor
	pending []Token
	lexed   []Token
	errors  []*Error
}

// New returns a lexer reading from c.
func New(c *Cursor) *Lexer {
	return &Lexer{cursor: c}
}

// FromString lexes an in-memory source.
func FromString(src string) *Lexer {
	return New(NewCursorString(src))
}

// Next pulls the next token, comments included, lexing on demand.
// It returns false once the input is exhausted.
func (l *Lexer) Next() (Token, bool) {
	if len(l.pending) == 0 && !l.lexNext() {
		return Token{}, false
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

// LexAll lexes the remaining input up front so every lexical diagnostic is
// known before parsing starts. Tokens stay queued for Next.
func (l *Lexer) LexAll() {
	for l.lexNext() {
	}
}

// Tokens returns every token lexed so far, including comments.
func (l *Lexer) Tokens() []Token {
	return l.lexed
}

// Errors returns the lexical diagnostics in source order.
func (l *Lexer) Errors() []*Error {
	return l.errors
}

// Errored reports whether any lexical error was recorded.
func (l *Lexer) Errored() bool {
	return len(l.errors) > 0
}

func (l *Lexer) lexNext() bool {
	for l.cursor.Has() {
		tok, err := l.scan()
		if err != nil {
			l.errors = append(l.errors, err)
			l.skipLine()
			continue
		}
		if tok == nil {
			continue
		}
		l.pending = append(l.pending, *tok)
		l.lexed = append(l.lexed, *tok)
		return true
	}
	return false
}

// scan reads one lexeme at the cursor. A nil token with a nil error means
// whitespace was skipped.
func (l *Lexer) scan() (*Token, *Error) {
	c := l.cursor
	cur, next := c.Peek(0), c.Peek(1)
	pos := c.Position()

	switch {
	case cur == '/' && next == '/':
		return l.scanComment(), nil
	case cur == '/' && next == '*':
		return l.scanBlockComment()
	case unicode.IsLetter(cur) || cur == '_':
		return l.scanWord(), nil
	case cur == ':' && next == '=', cur == '.' && next == '.':
		c.Advance()
		c.Advance()
		return &Token{Kind: KindSeparator, Text: string([]rune{cur, next}), Pos: pos}, nil
	case strings.ContainsRune("():;", cur):
		c.Advance()
		return &Token{Kind: KindSeparator, Text: string(cur), Pos: pos}, nil
	case strings.ContainsRune("<=!&+-/*", cur):
		c.Advance()
		return &Token{Kind: KindOperator, Text: string(cur), Pos: pos}, nil
	case isDigit(cur):
		return l.scanNumber()
	case cur == '"':
		return l.scanString()
	case unicode.IsSpace(cur):
		c.Advance()
		return nil, nil
	default:
		c.Advance()
		return nil, &Error{Pos: pos, Message: fmt.Sprintf("unrecognized token %q", cur)}
	}
}

func (l *Lexer) scanComment() *Token {
	c := l.cursor
	pos := c.Position()
	c.Advance()
	c.Advance()
	var text strings.Builder
	for c.Has() && c.Peek(0) != '\n' {
		text.WriteRune(c.Peek(0))
		c.Advance()
	}
	return &Token{Kind: KindComment, Text: text.String(), Pos: pos}
}

// scanBlockComment consumes a possibly nested /* ... */ comment. Inner
// delimiters are kept in the token text, the outermost pair is not.
func (l *Lexer) scanBlockComment() (*Token, *Error) {
	c := l.cursor
	pos := c.Position()
	c.Advance()
	c.Advance()
	var text strings.Builder
	nesting := 0
	for c.Has() {
		cur, next := c.Peek(0), c.Peek(1)
		switch {
		case cur == '/' && next == '*':
			nesting++
			text.WriteString("/*")
			c.Advance()
			c.Advance()
		case cur == '*' && next == '/':
			c.Advance()
			c.Advance()
			if nesting == 0 {
				return &Token{Kind: KindBlockComment, Text: text.String(), Pos: pos}, nil
			}
			nesting--
			text.WriteString("*/")
		default:
			text.WriteRune(cur)
			c.Advance()
		}
	}
	return nil, &Error{Pos: pos, Message: "unterminated block comment"}
}

func (l *Lexer) scanWord() *Token {
	c := l.cursor
	pos := c.Position()
	var text strings.Builder
	for c.Has() {
		r := c.Peek(0)
		if !unicode.IsLetter(r) && !isDigit(r) && r != '_' {
			break
		}
		text.WriteRune(r)
		c.Advance()
	}
	kind := KindIdentifier
	if IsKeyword(text.String()) {
		kind = KindKeyword
	}
	return &Token{Kind: kind, Text: text.String(), Pos: pos}
}

func (l *Lexer) scanNumber() (*Token, *Error) {
	c := l.cursor
	pos := c.Position()
	var text strings.Builder
	for c.Has() && isDigit(c.Peek(0)) {
		text.WriteRune(c.Peek(0))
		c.Advance()
	}
	if _, err := strconv.ParseInt(text.String(), 10, 32); err != nil {
		return nil, &Error{Pos: pos, Message: "constant too large"}
	}
	return &Token{Kind: KindNumber, Text: text.String(), Pos: pos}, nil
}

// scanString reads a quoted literal. Backslash escapes are kept verbatim
// while scanning and resolved once the closing quote is found.
func (l *Lexer) scanString() (*Token, *Error) {
	c := l.cursor
	pos := c.Position()
	c.Advance()
	var raw strings.Builder
	for c.Has() {
		switch r := c.Peek(0); r {
		case '\n':
			return nil, &Error{Pos: c.Position(), Message: "newline in string literal"}
		case '"':
			c.Advance()
			text, err := strconv.Unquote(`"` + raw.String() + `"`)
			if err != nil {
				return nil, &Error{Pos: pos, Message: "invalid escape sequence in string literal"}
			}
			return &Token{Kind: KindString, Text: text, Pos: pos}, nil
		case '\\':
			raw.WriteRune(r)
			if !c.Advance() {
				break
			}
			if c.Peek(0) == '\n' {
				return nil, &Error{Pos: c.Position(), Message: "newline in string literal"}
			}
			raw.WriteRune(c.Peek(0))
			c.Advance()
		default:
			raw.WriteRune(r)
			c.Advance()
		}
	}
	return nil, &Error{Pos: pos, Message: "unterminated string literal"}
}

func (l *Lexer) skipLine() {
	for l.cursor.Has() && l.cursor.Peek(0) != '\n' {
		l.cursor.Advance()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
