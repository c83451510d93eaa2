package kernel

import (
	"fmt"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// Instantiate unfolds a definition body against the supplied arguments.
// Leading parameters are substituted simultaneously; parameters without a
// matching argument are re-abstracted as lambdas around the result, in
// declared order, so a partial application yields a function of the
// residual arity instead of an error.
func Instantiate(params []defn.Param, body term.Term, args []term.Term) (term.Term, error) {
	if len(args) > len(params) {
		return nil, fmt.Errorf("%w: got %d, want at most %d", ErrTooManyArguments, len(args), len(params))
	}

	sub := make(map[string]term.Term, len(args))
	argFree := make(term.NameSet)
	for i, arg := range args {
		sub[params[i].Name] = arg
		argFree = argFree.Union(term.FreeVars(arg))
	}

	// A residual parameter whose name is free in some argument would
	// capture it once re-abstracted, so such parameters are renamed in the
	// body and in every residual annotation before the arguments go in.
	residual := params[len(args):]
	renames := make(map[string]term.Term)
	names := make([]string, len(residual))
	avoid := argFree.Union(term.FreeVars(body))
	for _, p := range params {
		avoid.Add(p.Name)
	}
	// Annotations stay outer-scoped, so a fresh name must not be spelled
	// like a variable free in one.
	for _, p := range residual {
		if p.Anno != nil {
			avoid = avoid.Union(term.FreeVars(p.Anno))
		}
	}
	for i, p := range residual {
		names[i] = p.Name
		if argFree.Contains(p.Name) {
			fresh := term.FreshName(p.Name, avoid)
			avoid.Add(fresh)
			renames[p.Name] = term.Var(fresh)
			names[i] = fresh
		}
	}

	out := term.SubstAll(term.SubstAll(body, renames), sub)
	for i := len(residual) - 1; i >= 0; i-- {
		anno := residual[i].Anno
		if anno != nil {
			anno = term.SubstAll(term.SubstAll(anno, renames), sub)
		}
		out = term.Lam(names[i], anno, out)
	}
	return out, nil
}

// DeltaReduce attempts to unfold a single reference. A name the environment
// does not know reduces to itself rather than failing: unresolved names are
// routinely bound variables shadowing definition names. localOnly restricts
// the lookup to the innermost environment.
func DeltaReduce(env *defn.Env, t term.Term, localOnly bool) (term.Term, bool, error) {
	ref, ok := t.(*term.Reference)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotAReference, t)
	}
	def, ok := env.Lookup(ref.Name, localOnly)
	if !ok {
		return t, false, nil
	}
	if len(ref.Args) > def.Arity() {
		return nil, false, fmt.Errorf("%w: %s takes %d, got %d",
			ErrTooManyArguments, ref.Name, def.Arity(), len(ref.Args))
	}
	switch def.Kind {
	case defn.Regular:
		if def.Body == nil {
			return nil, false, fmt.Errorf("%w: %s", ErrMissingBody, ref.Name)
		}
		out, err := Instantiate(def.Params, def.Body, ref.Args)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case defn.Theorem:
		// Proof irrelevance: a proven theorem stays opaque even though
		// its proof could technically stand in for it.
		if def.Proof == nil {
			return nil, false, fmt.Errorf("%w: %s", ErrUnprovenTheorem, ref.Name)
		}
		return t, false, nil
	case defn.Axiom:
		return t, false, nil
	case defn.Special:
		return nil, false, fmt.Errorf("%w: %s", ErrSpecialAtDeltaTime, ref.Name)
	default:
		return t, false, nil
	}
}

// DeltaStep performs one bottom-up pass unfolding every reference the
// environment resolves, arguments first.
func DeltaStep(env *defn.Env, t term.Term, localOnly bool) (term.Term, bool, error) {
	out, changed, err := descend(t, func(c term.Term) (term.Term, bool, error) {
		return DeltaStep(env, c, localOnly)
	})
	if err != nil {
		return nil, false, err
	}
	if !term.IsReference(out) {
		return out, changed, nil
	}
	reduced, reducedChanged, err := DeltaReduce(env, out, localOnly)
	if err != nil {
		return nil, false, err
	}
	return reduced, changed || reducedChanged, nil
}

// DeltaNormalize repeats DeltaStep against the full environment chain until
// nothing unfolds.
func DeltaNormalize(env *defn.Env, t term.Term) (term.Term, error) {
	return fixpoint(t, func(t term.Term) (term.Term, bool, error) {
		return DeltaStep(env, t, false)
	})
}

// DeltaNormalizeLocal is DeltaNormalize restricted to the innermost
// environment.
func DeltaNormalizeLocal(env *defn.Env, t term.Term) (term.Term, error) {
	return fixpoint(t, func(t term.Term) (term.Term, bool, error) {
		return DeltaStep(env, t, true)
	})
}
