package runtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"minipl/interpreter-go/pkg/ast"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	if err := env.Define("x", ast.NewNumber(3)); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	v, err := env.Get("x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if n, ok := v.(*ast.Number); !ok || n.Value != 3 {
		t.Fatalf("unexpected value %#v", v)
	}
	if err := env.Define("x", ast.NewNumber(4)); !errors.Is(err, ErrRedeclared) {
		t.Fatalf("expected redeclaration error, got %v", err)
	}
	if _, err := env.Get("y"); !errors.Is(err, ErrUndefined) || err.Error() != "undefined identifier y" {
		t.Fatalf("expected undefined error, got %v", err)
	}
}

func TestEnvironmentFreezeAndRestore(t *testing.T) {
	env := NewEnvironment()
	_ = env.Define("i", ast.NewNumber(0))
	restore, err := env.Freeze("i")
	if err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if err := env.Assign("i", ast.NewNumber(5)); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected immutable error, got %v", err)
	}
	if err := env.Rebind("i", ast.NewNumber(1), true); err != nil {
		t.Fatalf("rebind failed: %v", err)
	}
	restore()
	if err := env.Assign("i", ast.NewNumber(5)); err != nil {
		t.Fatalf("expected mutable binding after restore, got %v", err)
	}
	if got := env.Keys(); len(got) != 1 || got[0] != "i" {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestBufferPort(t *testing.T) {
	b := NewBuffer("ab")
	b.Write("x")
	b.WriteLine("y")
	if b.Output() != "xy\n" {
		t.Fatalf("unexpected output %q", b.Output())
	}
	if b.Read() != 'a' || b.Read() != 'b' || b.Read() != EOF || b.Read() != EOF {
		t.Fatalf("unexpected read sequence")
	}
}

func TestConsoleFlushesBeforeRead(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("z"), &out)
	c.Write("prompt> ")
	if r := c.Read(); r != 'z' {
		t.Fatalf("unexpected rune %q", r)
	}
	if out.String() != "prompt> " {
		t.Fatalf("output should be flushed before reading, got %q", out.String())
	}
	c.WriteLine("done")
	if err := c.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if out.String() != "prompt> done\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
