package defn

import (
	"errors"
	"fmt"
	"iter"

	"github.com/pell-lang/pell/pkg/term"
)

// ErrRedefined is returned when a name is defined twice in the same
// environment.
var ErrRedefined = errors.New("name already defined")

// Env maps definition names to definitions. Environments chain: a lookup
// that misses locally continues in the Outer environment, so local names
// shadow outer ones.
type Env struct {
	defs  map[string]*Definition
	names []string
	Outer *Env
}

// NewEnv creates an empty environment with no outer scope.
func NewEnv() *Env {
	return &Env{defs: make(map[string]*Definition)}
}

// Child creates an empty environment whose lookups fall through to e.
func (e *Env) Child() *Env {
	child := NewEnv()
	child.Outer = e
	return child
}

// Define installs d. Defining a name twice in the same environment is an
// error; shadowing a name from an outer environment is not.
func (e *Env) Define(d *Definition) error {
	if _, exists := e.defs[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrRedefined, d.Name)
	}
	e.defs[d.Name] = d
	e.names = append(e.names, d.Name)
	return nil
}

// Lookup resolves a name to its definition. With localOnly set the outer
// chain is not consulted. A nil environment never resolves anything.
func (e *Env) Lookup(name string, localOnly bool) (*Definition, bool) {
	if e == nil {
		return nil, false
	}
	if d, ok := e.defs[name]; ok {
		return d, true
	}
	if localOnly || e.Outer == nil {
		return nil, false
	}
	return e.Outer.Lookup(name, false)
}

// Names returns the locally defined names in definition order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Defs iterates the local definitions in definition order.
func (e *Env) Defs() iter.Seq[*Definition] {
	return func(yield func(*Definition) bool) {
		if e == nil {
			return
		}
		for _, name := range e.names {
			if !yield(e.defs[name]) {
				return
			}
		}
	}
}

// Binding pairs a bound name with its optional type annotation.
type Binding struct {
	Name string
	Anno term.Term
}

// Scope is the ambient binding context threaded through reduction. The
// rewrite engines never inspect it; it exists so host-implemented
// definitions can see which variables surround the reference site.
type Scope []Binding

// Push returns a scope extended with one more binding. The receiver is
// unchanged, so sibling branches of a traversal do not see each other's
// bindings.
func (s Scope) Push(name string, anno term.Term) Scope {
	out := make(Scope, len(s), len(s)+1)
	copy(out, s)
	return append(out, Binding{Name: name, Anno: anno})
}

// Resolve finds the innermost binding of name.
func (s Scope) Resolve(name string) (Binding, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Name == name {
			return s[i], true
		}
	}
	return Binding{}, false
}
