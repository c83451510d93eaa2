package pell

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/ioctx"
	"github.com/pell-lang/pell/pkg/term"
)

// Stdlib returns the host-implemented definitions every session starts
// with. Counting specials answer in Church numerals, since the kernel has
// no number type of its own.
func Stdlib() []*defn.Definition {
	return []*defn.Definition{
		// special debug_print(x)
		defn.NewSpecial("debug_print").
			Doc("prints its argument to stdout and reduces to it").
			Param("x", nil).
			Impl(func(ctx context.Context, env *defn.Env, sc defn.Scope, args []term.Term) (term.Term, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("debug_print: want 1 argument, got %d", len(args))
				}
				fmt.Fprintln(ioctx.StdoutFromContext(ctx), args[0])
				return args[0], nil
			}),

		// special arity_of(f)
		defn.NewSpecial("arity_of").
			Doc("reduces to the parameter count of a defined name, as a Church numeral").
			Param("f", nil).
			Impl(func(ctx context.Context, env *defn.Env, sc defn.Scope, args []term.Term) (term.Term, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("arity_of: want 1 argument, got %d", len(args))
				}
				ref, ok := args[0].(*term.Reference)
				if !ok || len(ref.Args) > 0 {
					return nil, fmt.Errorf("arity_of: %s is not a name", args[0])
				}
				def, ok := env.Lookup(ref.Name, false)
				if !ok {
					return nil, fmt.Errorf("arity_of: %s is not defined", ref.Name)
				}
				return church(def.Arity()), nil
			}),

		// special scope_depth()
		defn.NewSpecial("scope_depth").
			Doc("reduces to the ambient binding depth, as a Church numeral").
			Impl(func(ctx context.Context, env *defn.Env, sc defn.Scope, args []term.Term) (term.Term, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("scope_depth: want no arguments, got %d", len(args))
				}
				return church(len(sc)), nil
			}),

		// special assert_closed(x)
		defn.NewSpecial("assert_closed").
			Doc("reduces to its argument, failing when the argument has free variables").
			Param("x", nil).
			Impl(func(ctx context.Context, env *defn.Env, sc defn.Scope, args []term.Term) (term.Term, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("assert_closed: want 1 argument, got %d", len(args))
				}
				free := term.FreeVars(args[0])
				if len(free) > 0 {
					names := lo.Keys(free)
					sort.Strings(names)
					return nil, fmt.Errorf("assert_closed: %s has free variables: %s",
						args[0], strings.Join(names, ", "))
				}
				return args[0], nil
			}),
	}
}

// church builds the Church numeral for n: λs. λz. s (s ... z).
func church(n int) term.Term {
	body := term.Term(term.Var("z"))
	for range n {
		body = term.App(term.Var("s"), body)
	}
	return term.Lam("s", nil, term.Lam("z", nil, body))
}
