package eval

import "fmt"

// Environment is a block's name-to-value mapping plus a parent link for
// outward lookup. The reference stores variables as a linked list with
// O(n) lookups; a map is semantically equivalent and preferable (§9 design
// note), so that's what's used here.
type Environment struct {
	vars   map[string]*Value
	parent *Environment
}

// NewEnvironment creates an environment whose outward lookups fall through
// to parent (nil for the global/top-level environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]*Value), parent: parent}
}

// Declare introduces name in this environment's own scope (not searching
// parents). Redeclaring an existing name in the same scope is an error,
// per §4.8.
func (e *Environment) Declare(name string, v *Value) error {
	if _, exists := e.vars[name]; exists {
		return fmt.Errorf("redeclaration of %q in the same scope", name)
	}
	e.vars[name] = v
	return nil
}

// Lookup resolves name via unscoped_find_var: search this environment, then
// its parent, then upward.
func (e *Environment) Lookup(name string) (*Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign mutates the binding of name wherever it lives in the scope chain.
// Assigning to a function value or to an undeclared name is an error.
func (e *Environment) Assign(name string, v *Value) error {
	for env := e; env != nil; env = env.parent {
		if old, ok := env.vars[name]; ok {
			if old.Kind == KindFunction {
				return fmt.Errorf("cannot assign to function %q", name)
			}
			env.vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("assignment to undeclared identifier %q", name)
}
