package runtime

import (
	"errors"
	"fmt"
	"sort"

	"minipl/interpreter-go/pkg/ast"
)

var (
	ErrUndefined  = errors.New("undefined identifier")
	ErrImmutable  = errors.New("immutable variable")
	ErrRedeclared = errors.New("variable already defined")
)

// Binding is a variable's current value plus its mutability flag.
type Binding struct {
	Value     ast.Value
	Immutable bool
}

// Environment is the flat symbol table of one traversal. The language has
// a single global scope, so there is no parent chain.
type Environment struct {
	values map[string]*Binding
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]*Binding)}
}

// Define introduces a new mutable binding. Redeclaring a name is an error.
func (e *Environment) Define(name string, value ast.Value) error {
	if _, ok := e.values[name]; ok {
		return fmt.Errorf("variable %s: %w", name, ErrRedeclared)
	}
	e.values[name] = &Binding{Value: value}
	return nil
}

// Lookup returns the binding for name.
func (e *Environment) Lookup(name string) (*Binding, error) {
	b, ok := e.values[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUndefined, name)
	}
	return b, nil
}

// Get returns the current value of name.
func (e *Environment) Get(name string) (ast.Value, error) {
	b, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

// LookupMutable returns the binding for name, failing if it is frozen.
func (e *Environment) LookupMutable(name string) (*Binding, error) {
	b, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	if b.Immutable {
		return nil, fmt.Errorf("%w %s", ErrImmutable, name)
	}
	return b, nil
}

// Assign replaces the value of an existing mutable binding.
func (e *Environment) Assign(name string, value ast.Value) error {
	b, err := e.LookupMutable(name)
	if err != nil {
		return err
	}
	b.Value = value
	return nil
}

// Rebind replaces the binding of name with a fresh one regardless of its
// mutability. The name must already exist.
func (e *Environment) Rebind(name string, value ast.Value, immutable bool) error {
	if _, err := e.Lookup(name); err != nil {
		return err
	}
	e.values[name] = &Binding{Value: value, Immutable: immutable}
	return nil
}

// Freeze marks name immutable and returns a function that makes it mutable
// again. The restore targets whatever binding name holds at that point, so
// it stays correct when the binding was replaced in between.
func (e *Environment) Freeze(name string) (restore func(), err error) {
	b, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	b.Immutable = true
	return func() {
		if cur, ok := e.values[name]; ok {
			cur.Immutable = false
		}
	}, nil
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
