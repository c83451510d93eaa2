// Package pell ties the surface language to the kernel: it parses
// declarations, installs them into an environment, and runs eval and equiv
// directives through the normalizer.
package pell

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/ioctx"
	"github.com/pell-lang/pell/pkg/kernel"
	"github.com/pell-lang/pell/pkg/parse"
	"github.com/pell-lang/pell/pkg/term"
)

// Session holds the environment a program is loaded into. The root level
// carries the host specials; user definitions land in a child level, so a
// user definition shadows a special instead of colliding with it.
type Session struct {
	root *defn.Env

	// Env is the level user declarations are defined in.
	Env *defn.Env

	// Trace streams one line per rewrite to the trace writer carried by
	// the context.
	Trace bool
}

// NewSession creates a session with the standard specials installed.
func NewSession() *Session {
	root := defn.NewEnv()
	for _, def := range Stdlib() {
		if err := root.Define(def); err != nil {
			panic(err)
		}
	}
	return &Session{root: root, Env: root.Child()}
}

// Reset drops every user declaration, keeping the specials.
func (s *Session) Reset() {
	s.Env = s.root.Child()
}

// Names lists every name visible in the session, innermost level first.
func (s *Session) Names() []string {
	var names []string
	seen := map[string]bool{}
	for env := s.Env; env != nil; env = env.Outer {
		for _, name := range env.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Normalize rewrites t to its normal form in the session environment.
func (s *Session) Normalize(ctx context.Context, t term.Term) (term.Term, error) {
	n := kernel.Normalizer{Env: s.Env}
	if s.Trace {
		w := ioctx.TraceFromContext(ctx)
		n.Trace = func(phase kernel.Phase, before, after term.Term) {
			fmt.Fprintf(w, "[%s] %s => %s\n", phase, before, after)
		}
	}
	return n.Normalize(ctx, t)
}

// Equivalent reports whether a and b share a normal form up to renaming of
// bound variables.
func (s *Session) Equivalent(ctx context.Context, a, b term.Term) (bool, error) {
	na, err := s.Normalize(ctx, a)
	if err != nil {
		return false, err
	}
	nb, err := s.Normalize(ctx, b)
	if err != nil {
		return false, err
	}
	return term.AlphaEquivalent(na, nb), nil
}

// Install adds a parsed declaration to the environment, or runs it when it
// is a directive. Directive output goes to the context stdout.
func (s *Session) Install(ctx context.Context, decl parse.Decl) error {
	switch d := decl.(type) {
	case *parse.DefDecl:
		return s.Env.Define(&defn.Definition{
			Name:   d.Name,
			Kind:   defn.Regular,
			Params: d.Params,
			Anno:   d.Anno,
			Body:   d.Body,
		})
	case *parse.AxiomDecl:
		return s.Env.Define(&defn.Definition{
			Name:   d.Name,
			Kind:   defn.Axiom,
			Params: d.Params,
			Anno:   d.Anno,
		})
	case *parse.TheoremDecl:
		if d.Proof == nil {
			slog.Warn("theorem is unproven", "name", d.Name)
		}
		return s.Env.Define(&defn.Definition{
			Name:   d.Name,
			Kind:   defn.Theorem,
			Params: d.Params,
			Anno:   d.Statement,
			Proof:  d.Proof,
		})
	case *parse.EvalDecl:
		out, err := s.Normalize(ctx, d.Term)
		if err != nil {
			return err
		}
		fmt.Fprintln(ioctx.StdoutFromContext(ctx), out)
		return nil
	case *parse.EquivDecl:
		eq, err := s.Equivalent(ctx, d.Left, d.Right)
		if err != nil {
			return err
		}
		fmt.Fprintf(ioctx.StdoutFromContext(ctx), "%s == %s : %v\n", d.Left, d.Right, eq)
		return nil
	default:
		return fmt.Errorf("unhandled declaration %T", decl)
	}
}
