package lexer

import (
	"bufio"
	"io"
	"strings"
)

const eof rune = -1

// Cursor is a view over source text with exactly two characters of
// lookahead. Reading stops at the first decode or I/O failure, which is
// treated as end of input.
type Cursor struct {
	src *bufio.Reader
	buf [2]rune
	pos Position
	err error
}

// NewCursor buffers the first two characters of r.
func NewCursor(r io.Reader) *Cursor {
	c := &Cursor{src: bufio.NewReader(r)}
	c.buf[0] = c.fill()
	c.buf[1] = c.fill()
	c.pos = Position{Line: 1, Column: 1}
	return c
}

// NewCursorString is a convenience for in-memory sources.
func NewCursorString(src string) *Cursor {
	return NewCursor(strings.NewReader(src))
}

func (c *Cursor) fill() rune {
	if c.err != nil {
		return eof
	}
	r, _, err := c.src.ReadRune()
	if err != nil {
		if err != io.EOF {
			c.err = err
		}
		return eof
	}
	return r
}

// Has reports whether the current position is readable.
func (c *Cursor) Has() bool { return c.buf[0] != eof }

// HasNext reports whether the character after the current one is readable.
func (c *Cursor) HasNext() bool { return c.buf[1] != eof }

// Peek returns the current character (i == 0) or the one after it (i == 1).
// Any other index panics.
func (c *Cursor) Peek(i int) rune {
	return c.buf[i]
}

// Advance moves one character forward and reports whether a character is
// now available. Crossing a newline moves to the next line.
func (c *Cursor) Advance() bool {
	if c.buf[0] == eof {
		return false
	}
	prev := c.buf[0]
	c.buf[0] = c.buf[1]
	c.buf[1] = c.fill()
	c.pos.Offset++
	if prev == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}
	return c.buf[0] != eof
}

// Position returns the location of the current character.
func (c *Cursor) Position() Position { return c.pos }

// Err returns the read failure that ended the input early, if any.
func (c *Cursor) Err() error { return c.err }
