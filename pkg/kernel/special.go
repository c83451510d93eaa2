package kernel

import (
	"context"
	"fmt"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// SpecialReduce invokes the host capability behind a special reference and
// replaces the reference with whatever term the capability builds. This is
// the one place term construction is delegated to the host; the capability
// is trusted to return a well-formed term. References to any other kind of
// definition, and unresolved names, are left alone. The scope is handed to
// the capability untouched.
func SpecialReduce(ctx context.Context, env *defn.Env, sc defn.Scope, t term.Term) (term.Term, bool, error) {
	ref, ok := t.(*term.Reference)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotAReference, t)
	}
	def, ok := env.Lookup(ref.Name, false)
	if !ok || def.Kind != defn.Special {
		return t, false, nil
	}
	out, err := def.Fn(ctx, env, sc, ref.Args)
	if err != nil {
		return nil, false, fmt.Errorf("special %s: %w", ref.Name, err)
	}
	return out, true, nil
}

// SpecialStep performs one bottom-up pass eliminating every special
// reference, arguments first.
func SpecialStep(ctx context.Context, env *defn.Env, sc defn.Scope, t term.Term) (term.Term, bool, error) {
	out, changed, err := descend(t, func(c term.Term) (term.Term, bool, error) {
		return SpecialStep(ctx, env, sc, c)
	})
	if err != nil {
		return nil, false, err
	}
	if !term.IsReference(out) {
		return out, changed, nil
	}
	reduced, reducedChanged, err := SpecialReduce(ctx, env, sc, out)
	if err != nil {
		return nil, false, err
	}
	return reduced, changed || reducedChanged, nil
}

// SpecialNormalize repeats SpecialStep until no special reference remains.
func SpecialNormalize(ctx context.Context, env *defn.Env, sc defn.Scope, t term.Term) (term.Term, error) {
	return fixpoint(t, func(t term.Term) (term.Term, bool, error) {
		return SpecialStep(ctx, env, sc, t)
	})
}
