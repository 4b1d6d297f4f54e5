package runtime

import (
	"bufio"
	"io"
	"strings"
)

// EOF is returned by Port.Read once the input is exhausted.
const EOF rune = -1

// Port is the program's only channel to the outside world: print and
// diagnostics go through Write/WriteLine, read pulls characters from Read.
type Port interface {
	Write(text string)
	WriteLine(text string)
	Read() rune
}

// Console is a Port over an arbitrary reader and writer. Output is
// buffered; call Flush before handing the writer to anyone else.
type Console struct {
	in  *bufio.Reader
	out *bufio.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: bufio.NewWriter(out)}
}

func (c *Console) Write(text string) {
	c.out.WriteString(text)
}

func (c *Console) WriteLine(text string) {
	c.out.WriteString(text)
	c.out.WriteByte('\n')
}

// Read flushes pending output first so prompts appear before blocking.
func (c *Console) Read() rune {
	c.out.Flush()
	r, _, err := c.in.ReadRune()
	if err != nil {
		return EOF
	}
	return r
}

func (c *Console) Flush() error {
	return c.out.Flush()
}

// Buffer is an in-memory Port used by tests and scenario runs.
type Buffer struct {
	input  *strings.Reader
	output strings.Builder
}

// NewBuffer returns a port whose reads come from input.
func NewBuffer(input string) *Buffer {
	return &Buffer{input: strings.NewReader(input)}
}

func (b *Buffer) Write(text string) {
	b.output.WriteString(text)
}

func (b *Buffer) WriteLine(text string) {
	b.output.WriteString(text)
	b.output.WriteByte('\n')
}

func (b *Buffer) Read() rune {
	r, _, err := b.input.ReadRune()
	if err != nil {
		return EOF
	}
	return r
}

// Output returns everything written so far.
func (b *Buffer) Output() string {
	return b.output.String()
}
